package memory

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
)

type documentRepository struct{ base }

var _ portsrepo.DocumentRepositoryFacade = (*documentRepository)(nil)

func (r *documentRepository) FindDocumentByID(_ context.Context, documentID string) (*domain.Document, error) {
	defer r.lock()()
	d, ok := r.s.data.documents[documentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &d, nil
}

func (r *documentRepository) CountDocumentsByKindAndIssueDate(_ context.Context, kind domain.DocumentKind, issueDate time.Time) (int, error) {
	defer r.lock()()
	n := 0
	for _, d := range r.s.data.documents {
		if d.Kind == kind && d.IssueDate.Equal(issueDate) {
			n++
		}
	}
	return n, nil
}

func (r *documentRepository) ListSettlementsByDocumentID(_ context.Context, documentID string) ([]domain.Settlement, error) {
	defer r.lock()()
	out := []domain.Settlement{}
	for _, s := range r.s.data.settlements {
		if s.DocumentID == documentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *documentRepository) SaveDocument(_ context.Context, document domain.Document) error {
	defer r.lock()()
	for _, d := range r.s.data.documents {
		if d.DocumentID == document.DocumentID || d.DocNo == document.DocNo {
			return apperrors.ErrDuplicate
		}
	}
	r.s.data.documents[document.DocumentID] = document
	return nil
}

func (r *documentRepository) UpdateDocument(_ context.Context, document domain.Document, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.s.data.documents[document.DocumentID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return &apperrors.ConcurrentModificationError{Current: stored.Version, Expected: expectedVersion}
	}
	r.s.data.documents[document.DocumentID] = document
	return nil
}

func (r *documentRepository) SaveSettlement(_ context.Context, settlement domain.Settlement) error {
	defer r.lock()()
	if _, ok := r.s.data.documents[settlement.DocumentID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.data.settlements = append(r.s.data.settlements, settlement)
	return nil
}
