package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/internal/calculator"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/internal/storage"
	"github.com/mmynk/mealbook/pkg/api"
)

// WeightService implements the Connect WeightService.
type WeightService struct {
	store storage.WeightStore
	loc   *time.Location
	now   func() time.Time
}

// NewWeightService creates a WeightService. loc is used for chart labels.
func NewWeightService(store storage.WeightStore, loc *time.Location) *WeightService {
	if loc == nil {
		loc = time.Local
	}
	return &WeightService{store: store, loc: loc, now: time.Now}
}

// AddEntry records a weight measurement.
func (s *WeightService) AddEntry(ctx context.Context, req *connect.Request[api.AddEntryRequest]) (*connect.Response[api.AddEntryResponse], error) {
	slog.Info("AddEntry request received", "date", req.Msg.Date, "weight", req.Msg.Weight)

	weight, err := calculator.ParseWeight(req.Msg.Weight)
	if err != nil {
		slog.Warn("AddEntry rejected", "error", err)
		return nil, toConnectError(err)
	}

	entry := &models.WeightEntry{Date: req.Msg.Date, Weight: weight}
	if entry.Date == 0 {
		entry.Date = s.now().UnixMilli()
	}

	if err := s.store.AddWeight(ctx, entry); err != nil {
		slog.Error("AddEntry failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Weight entry added", "entry_id", entry.ID)
	return connect.NewResponse(&api.AddEntryResponse{Entry: weightToAPI(entry)}), nil
}

// DeleteEntry removes a weight measurement.
func (s *WeightService) DeleteEntry(ctx context.Context, req *connect.Request[api.DeleteEntryRequest]) (*connect.Response[api.DeleteEntryResponse], error) {
	slog.Info("DeleteEntry request received", "entry_id", req.Msg.Id)

	if req.Msg.Id == "" {
		return nil, invalidArgument("entry id is required")
	}

	if err := s.store.DeleteWeight(ctx, req.Msg.Id); err != nil {
		slog.Error("DeleteEntry failed", "entry_id", req.Msg.Id, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Weight entry deleted", "entry_id", req.Msg.Id)
	return connect.NewResponse(&api.DeleteEntryResponse{}), nil
}

// ListEntries returns all entries, newest first unless sort is "asc".
func (s *WeightService) ListEntries(ctx context.Context, req *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error) {
	slog.Info("ListEntries request received", "sort", req.Msg.Sort)

	dir := models.SortDescending
	switch models.SortDirection(req.Msg.Sort) {
	case "", models.SortDescending:
	case models.SortAscending:
		dir = models.SortAscending
	default:
		return nil, invalidArgument("unknown sort %q", req.Msg.Sort)
	}

	entries, err := s.store.ListWeights(ctx, dir)
	if err != nil {
		slog.Error("ListEntries failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.WeightEntry, len(entries))
	for i := range entries {
		out[i] = weightToAPI(&entries[i])
	}
	return connect.NewResponse(&api.ListEntriesResponse{Entries: out}), nil
}

// GetProgress returns the overall change and the chart for a time range.
func (s *WeightService) GetProgress(ctx context.Context, req *connect.Request[api.GetProgressRequest]) (*connect.Response[api.GetProgressResponse], error) {
	slog.Info("GetProgress request received", "range", req.Msg.Range)

	r, err := calculator.ParseTimeRange(req.Msg.Range)
	if err != nil {
		return nil, toConnectError(err)
	}

	entries, err := s.store.ListWeights(ctx, models.SortAscending)
	if err != nil {
		slog.Error("GetProgress failed", "error", err)
		return nil, toConnectError(err)
	}

	res := &api.GetProgressResponse{Points: []*api.ChartPoint{}}
	if p := calculator.WeightProgress(entries); p != nil {
		res.Progress = &api.Progress{Total: p.Total, Direction: p.Direction, Summary: p.String()}
	}
	for _, pt := range calculator.ChartPoints(entries, r, s.now(), s.loc) {
		res.Points = append(res.Points, &api.ChartPoint{Label: pt.Label, Date: pt.Date, Weight: pt.Weight})
	}

	return connect.NewResponse(res), nil
}
