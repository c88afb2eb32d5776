package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/core/oplock"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/google/uuid"
)

type settlementService struct {
	BaseService
	repos     portsrepo.RepositoryProvider
	txManager portsrepo.TransactionManager
	ledger    portssvc.LedgerTxSvc
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// NewSettlementService creates a new settlement service.
func NewSettlementService(repos portsrepo.RepositoryProvider, txManager portsrepo.TransactionManager, ledger portssvc.LedgerTxSvc, opts ...Option) portssvc.SettlementSvcFacade {
	return &settlementService{
		BaseService: newBaseService(opts),
		repos:       repos,
		txManager:   txManager,
		ledger:      ledger,
	}
}

func (s *settlementService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, userID string) (*domain.Document, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	issueDate := s.dateOrToday(req.IssueDate)
	doc := domain.Document{
		DocumentID:   uuid.NewString(),
		Kind:         req.Kind,
		Party:        req.Party,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		IssueDate:    issueDate,
		Status:       domain.DocumentOpen,
		Memo:         req.Memo,
		Version:      1,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	if req.DueDate != nil {
		due := domain.NormalizeDate(*req.DueDate)
		if due.Before(issueDate) {
			return nil, fmt.Errorf("%w: due date is before issue date", apperrors.ErrValidation)
		}
		doc.DueDate = &due
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		count, err := repos.DocumentRepo.CountDocumentsByKindAndIssueDate(ctx, doc.Kind, issueDate)
		if err != nil {
			return err
		}
		doc.DocNo = domain.FormatDocumentNo(doc.Kind, issueDate, count+1)
		return repos.DocumentRepo.SaveDocument(ctx, doc)
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to create document", slog.String("kind", string(req.Kind)))
		return nil, err
	}

	s.LogInfo(ctx, "Document created", slog.String("document_id", doc.DocumentID), slog.String("doc_no", doc.DocNo))
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "document",
		EntityID:   doc.DocumentID,
		Action:     "create",
		ToStatus:   string(doc.Status),
		After:      doc,
	})
	return &doc, nil
}

func (s *settlementService) GetDocument(ctx context.Context, documentID string) (*dto.DocumentResponse, error) {
	doc, err := s.repos.DocumentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.repos.DocumentRepo.ListSettlementsByDocumentID(ctx, documentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list settlements", slog.String("document_id", documentID))
		return nil, err
	}
	return &dto.DocumentResponse{Document: *doc, Settlements: settlements}, nil
}

// Settle records a settlement against an existing posting. Settling beyond the
// document amount is allowed and leaves the document settled.
func (s *settlementService) Settle(ctx context.Context, documentID string, req dto.SettleDocumentRequest, userID string) (*domain.Settlement, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	settledDate := s.dateOrToday(req.SettledDate)
	var (
		settlement    *domain.Settlement
		before, after domain.Document
	)
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		doc, err := repos.DocumentRepo.FindDocumentByID(ctx, documentID)
		if err != nil {
			return err
		}
		before = *doc
		if _, err := repos.LedgerRepo.FindPostingByID(ctx, req.PostingID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("posting %s: %w", req.PostingID, apperrors.ErrNotFound)
			}
			return err
		}
		settlement, err = s.applySettlement(ctx, repos, doc, req.PostingID, req.Amount, settledDate, userID)
		after = *doc
		return err
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to settle document", slog.String("document_id", documentID))
		return nil, err
	}

	s.LogInfo(ctx, "Document settled",
		slog.String("document_id", documentID),
		slog.Int64("amount", req.Amount),
		slog.String("status", string(after.Status)))
	s.recordDocumentAudit(ctx, userID, "settle", before, after)
	return settlement, nil
}

// Confirm books the full document amount on an account and settles the
// document with that posting. A document is confirmed at most once.
func (s *settlementService) Confirm(ctx context.Context, documentID string, req dto.ConfirmDocumentRequest, userID string) (*domain.PostingResult, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	bizDate := s.dateOrToday(req.BizDate)
	var (
		result        *domain.PostingResult
		before, after domain.Document
	)
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		doc, err := repos.DocumentRepo.FindDocumentByID(ctx, documentID)
		if err != nil {
			return err
		}
		before = *doc
		if doc.Confirmed {
			return fmt.Errorf("%w: document %s is already confirmed", apperrors.ErrBusinessRule, doc.DocNo)
		}

		memo := req.Memo
		if memo == "" {
			memo = doc.DocNo
		}
		result, err = postWorkflowEntry(ctx, repos, s.ledger, workflowEntry{
			AccountID:    req.AccountID,
			CurrencyCode: doc.CurrencyCode,
			Kind:         doc.Kind.PostingKind(),
			Amount:       doc.Kind.SignedAmount(doc.Amount),
			BizDate:      bizDate,
			Category:     req.Category,
			Counterparty: doc.Party,
			Memo:         memo,
		}, userID)
		if err != nil {
			return err
		}

		now := s.Now()
		doc.Confirmed = true
		doc.ConfirmedPostingID = result.Posting.PostingID
		doc.ConfirmedBy = userID
		doc.ConfirmedAt = &now
		if _, err := s.applySettlement(ctx, repos, doc, result.Posting.PostingID, doc.Amount, bizDate, userID); err != nil {
			return err
		}
		after = *doc
		return nil
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to confirm document", slog.String("document_id", documentID))
		return nil, err
	}

	s.LogInfo(ctx, "Document confirmed",
		slog.String("document_id", documentID),
		slog.String("voucher_no", result.Posting.VoucherNo))
	s.recordDocumentAudit(ctx, userID, "confirm", before, after)
	return result, nil
}

// applySettlement stores the settlement, then re-derives the document status
// from the sum of all its settlements.
func (s *settlementService) applySettlement(ctx context.Context, repos portsrepo.RepositoryProvider, doc *domain.Document, postingID string, amount int64, settledDate time.Time, userID string) (*domain.Settlement, error) {
	now := s.Now()
	settlement := domain.Settlement{
		SettlementID: uuid.NewString(),
		DocumentID:   doc.DocumentID,
		PostingID:    postingID,
		Amount:       amount,
		SettledDate:  settledDate,
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	if err := repos.DocumentRepo.SaveSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	settlements, err := repos.DocumentRepo.ListSettlementsByDocumentID(ctx, doc.DocumentID)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, st := range settlements {
		total += st.Amount
	}

	prev := doc.Version
	doc.SettledAmount = total
	doc.Status = domain.DeriveDocumentStatus(doc.Amount, total)
	doc.Version = oplock.IncrementVersion(&prev)
	doc.Touch(userID, now)
	if err := repos.DocumentRepo.UpdateDocument(ctx, *doc, prev); err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (s *settlementService) recordDocumentAudit(ctx context.Context, userID, action string, before, after domain.Document) {
	s.RecordAudit(ctx, domain.AuditEvent{
		Actor:      userID,
		EntityType: "document",
		EntityID:   after.DocumentID,
		Action:     action,
		FromStatus: string(before.Status),
		ToStatus:   string(after.Status),
		Before:     before,
		After:      after,
	})
}
