package dto

import (
	"time"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
)

// CreateSessionRequest defines the payload for starting a shipment session.
// TripDetails is preserved verbatim in the audit trail; it is not modeled as
// first-class session columns.
type CreateSessionRequest struct {
	Source      string         `json:"source" binding:"required"`
	Destination string         `json:"destination" binding:"required"`
	Barcode     *string        `json:"barcode,omitempty" binding:"omitempty,barcode"`
	TripDetails map[string]any `json:"tripDetails,omitempty"`
}

// AttachSealRequest defines the payload for sealing a pending session.
type AttachSealRequest struct {
	Barcode string `json:"barcode" binding:"required,barcode"`
}

// SealVerificationCheck is one field-by-field comparison between the
// operator-entered value and what the guard observed at verification time.
type SealVerificationCheck struct {
	Field         string `json:"field" binding:"required"`
	OperatorValue string `json:"operatorValue"`
	GuardValue    string `json:"guardValue"`
}

// VerifySealRequest defines the payload for guard verification of a seal.
type VerifySealRequest struct {
	Checks []SealVerificationCheck `json:"checks" binding:"omitempty,dive"`
}

// SealResponse is the public representation of a seal.
type SealResponse struct {
	SealID       string     `json:"sealID"`
	SessionID    string     `json:"sessionID"`
	Barcode      string     `json:"barcode"`
	Verified     bool       `json:"verified"`
	VerifiedByID *string    `json:"verifiedByID,omitempty"`
	ScannedAt    *time.Time `json:"scannedAt,omitempty"`
}

// ToSealResponse converts a domain.Seal to its response DTO.
func ToSealResponse(s *domain.Seal) SealResponse {
	return SealResponse{
		SealID:       s.SealID,
		SessionID:    s.SessionID,
		Barcode:      s.Barcode,
		Verified:     s.Verified,
		VerifiedByID: s.VerifiedByID,
		ScannedAt:    s.ScannedAt,
	}
}

// CommentResponse is the public representation of a session comment.
type CommentResponse struct {
	CommentID string    `json:"commentID"`
	SessionID string    `json:"sessionID"`
	AuthorID  string    `json:"authorID"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCommentRequest defines the payload for annotating a session.
type CreateCommentRequest struct {
	Message string `json:"message" binding:"required"`
}

// SessionResponse is the public representation of a session.
type SessionResponse struct {
	SessionID   string               `json:"sessionID"`
	CompanyID   string               `json:"companyID"`
	CreatedByID string               `json:"createdByID"`
	Source      string               `json:"source"`
	Destination string               `json:"destination"`
	Status      domain.SessionStatus `json:"status"`
	Seal        *SealResponse        `json:"seal,omitempty"`
	Comments    []CommentResponse    `json:"comments,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ToSessionResponse converts a domain.Session to its response DTO.
func ToSessionResponse(s *domain.Session) SessionResponse {
	resp := SessionResponse{
		SessionID:   s.SessionID,
		CompanyID:   s.CompanyID,
		CreatedByID: s.CreatedByID,
		Source:      s.Source,
		Destination: s.Destination,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.LastUpdatedAt,
	}
	if s.Seal != nil {
		seal := ToSealResponse(s.Seal)
		resp.Seal = &seal
	}
	for i := range s.Comments {
		c := s.Comments[i]
		resp.Comments = append(resp.Comments, CommentResponse{
			CommentID: c.CommentID,
			SessionID: c.SessionID,
			AuthorID:  c.AuthorID,
			Message:   c.Message,
			CreatedAt: c.CreatedAt,
		})
	}
	return resp
}

// ListSessionsParams defines query parameters for listing sessions.
type ListSessionsParams struct {
	Status            string `form:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	CompanyID         string `form:"companyID"`
	NeedsVerification bool   `form:"needsVerification"`
	Page              int    `form:"page,default=1"`
	Limit             int    `form:"limit,default=20"`
}

// ListSessionsResponse wraps a page of sessions.
type ListSessionsResponse struct {
	Sessions   []SessionResponse `json:"sessions"`
	Pagination Pagination        `json:"pagination"`
}
