package rewards

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
	uuid "github.com/satori/go.uuid"

	"github.com/vendwars/vote-ledger/middleware"
	"github.com/vendwars/vote-ledger/utils/handlers"
)

func corsMiddleware(allowedMethods []string) func(next http.Handler) http.Handler {
	debug, err := strconv.ParseBool(os.Getenv("DEBUG"))
	if err != nil {
		debug = false
	}
	return cors.Handler(cors.Options{
		Debug:            debug,
		AllowedOrigins:   strings.Split(os.Getenv("ALLOWED_ORIGINS"), ","),
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{""},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})
}

// Router for rewards endpoints
func Router(service *Service) chi.Router {
	r := chi.NewRouter()
	r.Method("POST", "/votes", middleware.InstrumentHandler("SubmitVote", SubmitVote(service)))
	r.Method("POST", "/settlements/{userId}", middleware.InstrumentHandler("RetrySettlement", RetrySettlement(service)))
	r.Method("POST", "/wallet/{userId}/link", middleware.InstrumentHandler("LinkSettlementAddress", LinkSettlementAddress(service)))
	r.Method("POST", "/wallet/{userId}/reconcile", middleware.InstrumentHandler("ReconcileWallet", ReconcileWallet(service)))
	// the summary feeds UI banners, it is the one browser facing read
	r.Method("OPTIONS", "/credits/{userId}/summary", middleware.InstrumentHandler("GetCreditSummaryOptions", corsMiddleware([]string{"GET"})(nil)))
	r.Method("GET", "/credits/{userId}/summary", middleware.InstrumentHandler("GetCreditSummary", corsMiddleware([]string{"GET"})(GetCreditSummary(service))))
	return r
}

// SubmitVoteRequest includes the fields of a vote submission
type SubmitVoteRequest struct {
	VoterID        string  `json:"voterId" valid:"uuidv4,required"`
	VendorID       string  `json:"vendorId" valid:"uuidv4,required"`
	Verified       bool    `json:"verified" valid:"-"`
	AttestationRef *string `json:"attestationRef,omitempty" valid:"-"`
}

// LinkSettlementAddressRequest includes the address credits settle to
type LinkSettlementAddressRequest struct {
	RecipientAddress string `json:"recipientAddress" valid:"required"`
}

func rejectionStatus(reason RejectionReason) int {
	if reason == RejectionDuplicateAttestation {
		return http.StatusConflict
	}
	return http.StatusTooManyRequests
}

// SubmitVote is the handler for recording a vote and its reward
func SubmitVote(service *Service) handlers.AppHandler {
	return handlers.AppHandler(func(w http.ResponseWriter, r *http.Request) *handlers.AppError {
		var req SubmitVoteRequest
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req)
		if err != nil {
			return handlers.WrapError(err, "Error in request body", http.StatusBadRequest)
		}

		_, err = govalidator.ValidateStruct(req)
		if err != nil {
			return handlers.WrapValidationError(err)
		}

		if req.Verified && (req.AttestationRef == nil || *req.AttestationRef == "") {
			return handlers.ValidationError("request body", map[string]interface{}{
				"attestationRef": "attestationRef is required for verified votes",
			})
		}

		voterID := uuid.Must(uuid.FromString(req.VoterID))
		vendorID := uuid.Must(uuid.FromString(req.VendorID))

		result, err := service.SubmitVote(r.Context(), voterID, vendorID, req.Verified, req.AttestationRef)
		if err != nil {
			var rejection *RejectionError
			if errors.As(err, &rejection) {
				return &handlers.AppError{
					Message: rejection.Error(),
					Code:    rejectionStatus(rejection.Reason),
					Data:    map[string]interface{}{"reason": rejection.Reason},
				}
			}
			return handlers.WrapError(err, "Error submitting vote", http.StatusInternalServerError)
		}

		return handlers.RenderContent(result, w, http.StatusCreated)
	})
}

// RetrySettlement is the handler for re-running settlement for a user
func RetrySettlement(service *Service) handlers.AppHandler {
	return handlers.AppHandler(func(w http.ResponseWriter, r *http.Request) *handlers.AppError {
		userID, err := uuid.FromString(chi.URLParam(r, "userId"))
		if err != nil {
			return handlers.ValidationError("request url parameter", map[string]string{
				"userId": "userId must be a uuidv4",
			})
		}

		result, err := service.RetrySettlement(r.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrNoSettlementAddress) {
				return handlers.WrapError(err, "Error retrying settlement", http.StatusBadRequest)
			}
			return handlers.WrapError(err, "Error retrying settlement", http.StatusInternalServerError)
		}

		return handlers.RenderContent(result, w, http.StatusOK)
	})
}

// LinkSettlementAddress is the handler for linking a settlement address
func LinkSettlementAddress(service *Service) handlers.AppHandler {
	return handlers.AppHandler(func(w http.ResponseWriter, r *http.Request) *handlers.AppError {
		userID, err := uuid.FromString(chi.URLParam(r, "userId"))
		if err != nil {
			return handlers.ValidationError("request url parameter", map[string]string{
				"userId": "userId must be a uuidv4",
			})
		}

		var req LinkSettlementAddressRequest
		err = json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req)
		if err != nil {
			return handlers.WrapError(err, "Error in request body", http.StatusBadRequest)
		}

		_, err = govalidator.ValidateStruct(req)
		if err != nil {
			return handlers.WrapValidationError(err)
		}

		err = service.LinkSettlementAddress(r.Context(), userID, req.RecipientAddress)
		if err != nil {
			return handlers.WrapError(err, "Error linking settlement address", http.StatusInternalServerError)
		}

		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// ReconcileWallet is the handler for refreshing the cached external balance
func ReconcileWallet(service *Service) handlers.AppHandler {
	return handlers.AppHandler(func(w http.ResponseWriter, r *http.Request) *handlers.AppError {
		userID, err := uuid.FromString(chi.URLParam(r, "userId"))
		if err != nil {
			return handlers.ValidationError("request url parameter", map[string]string{
				"userId": "userId must be a uuidv4",
			})
		}

		state, err := service.Datastore.GetUserLedgerState(r.Context(), userID)
		if err != nil {
			return handlers.WrapError(err, "Error reconciling wallet", http.StatusInternalServerError)
		}
		if state == nil || state.RecipientAddress == nil {
			return handlers.WrapError(ErrNoSettlementAddress, "Error reconciling wallet", http.StatusBadRequest)
		}

		outcome, err := service.Reconcile(r.Context(), userID, *state.RecipientAddress)
		if err != nil {
			return handlers.WrapError(err, "Error reconciling wallet", http.StatusInternalServerError)
		}

		return handlers.RenderContent(outcome, w, http.StatusOK)
	})
}

// CreditSummaryResponse joins the user's ledger state with their credit totals
type CreditSummaryResponse struct {
	UserID                uuid.UUID      `json:"userId"`
	Streak                int            `json:"streak"`
	PendingBalance        string         `json:"pendingBalance"`
	LastKnownChainBalance string         `json:"lastKnownChainBalance"`
	Credits               *CreditSummary `json:"credits"`
}

// GetCreditSummary is the handler for reading a user's credit totals
func GetCreditSummary(service *Service) handlers.AppHandler {
	return handlers.AppHandler(func(w http.ResponseWriter, r *http.Request) *handlers.AppError {
		userID, err := uuid.FromString(chi.URLParam(r, "userId"))
		if err != nil {
			return handlers.ValidationError("request url parameter", map[string]string{
				"userId": "userId must be a uuidv4",
			})
		}

		state, err := service.GetUserLedgerState(r.Context(), userID)
		if err != nil {
			return handlers.WrapError(err, "Error getting credit summary", http.StatusInternalServerError)
		}
		if state == nil {
			return &handlers.AppError{
				Message: "User not found",
				Code:    http.StatusNotFound,
				Data:    map[string]interface{}{},
			}
		}

		summary, err := service.GetCreditSummary(r.Context(), userID)
		if err != nil {
			return handlers.WrapError(err, "Error getting credit summary", http.StatusInternalServerError)
		}

		return handlers.RenderContent(&CreditSummaryResponse{
			UserID:                userID,
			Streak:                state.Streak,
			PendingBalance:        state.PendingBalance.String(),
			LastKnownChainBalance: state.LastKnownChainBalance.String(),
			Credits:               summary,
		}, w, http.StatusOK)
	})
}
