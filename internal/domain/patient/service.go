package patient

import (
	"bytes"
	"context"

	"github.com/openclinic/formsync/internal/platform/serial"
)

// Service assembles and encodes patient batches for offline clients.
type Service struct {
	repo       Repository
	serializer serial.Serializer
}

// NewService creates a patient service using the configured batch
// serializer.
func NewService(repo Repository, serializer serial.Serializer) *Service {
	return &Service{repo: repo, serializer: serializer}
}

// List returns one page of patients plus the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ExportBatch loads every patient plus the ancillary field table and
// encodes them with the configured serializer. Repository failures are
// returned; encode failures follow the serializer's log-and-continue
// contract, so the returned bytes are whatever the serializer produced.
func (s *Service) ExportBatch(ctx context.Context) ([]byte, error) {
	patients, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	fields, err := s.repo.ListTableFields(ctx)
	if err != nil {
		return nil, err
	}
	values, err := s.repo.ListTableFieldValues(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	s.serializer.Serialize(&buf, toBatch(patients, fields, values))
	return buf.Bytes(), nil
}
