package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/kursverwaltung/internal/history"
)

type HistoryHandler struct {
	recorder *history.Recorder
}

func NewHistoryHandler(recorder *history.Recorder) *HistoryHandler {
	return &HistoryHandler{recorder: recorder}
}

type HistoryRequest struct {
	Entity   string `query:"entity" doc:"Only changes of this entity"`
	RecordID string `query:"record_id" doc:"Only changes of this record"`
	Diff     bool   `query:"diff" default:"true" doc:"Return only changed fields compared to the previous change of the same record"`
	Limit    int    `query:"limit" default:"100" minimum:"1" maximum:"1000"`
}

type HistoryResponse struct {
	Body struct {
		History []history.Entry `json:"history"`
	}
}

func (h *HistoryHandler) HandleHistory(ctx context.Context, input *HistoryRequest) (*HistoryResponse, error) {
	entries, err := h.recorder.List(ctx, history.Filter{
		Entity:   input.Entity,
		RecordID: input.RecordID,
		Diff:     input.Diff,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch history: " + err.Error())
	}

	res := &HistoryResponse{}
	res.Body.History = entries
	return res, nil
}
