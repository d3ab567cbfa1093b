package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	memberStore "gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/machine"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/trainer"
)

// memberInput is the writable part of a member; id and status are never taken from the body.
type memberInput struct {
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	DOB        string          `json:"dob"`
	Photo      string          `json:"photo"`
	Height     float64         `json:"height"`
	PlanType   string          `json:"plan_type"`
	Amount     decimal.Decimal `json:"amount"`
	StartDate  string          `json:"start_date"`
	ExpiryDate string          `json:"expiry_date"`
	TrainerID  *int64          `json:"trainer_id"`
}

func (in memberInput) toMember(id int64) member.Member {
	return member.Member{
		ID:         id,
		Name:       in.Name,
		Phone:      in.Phone,
		Email:      in.Email,
		DOB:        in.DOB,
		Photo:      in.Photo,
		Height:     in.Height,
		PlanType:   in.PlanType,
		Amount:     in.Amount,
		StartDate:  in.StartDate,
		ExpiryDate: in.ExpiryDate,
		TrainerID:  in.TrainerID,
	}
}

// saveMember validates and persists a member, writing the error response itself.
func saveMember(w http.ResponseWriter, r *http.Request, m member.Member) (member.Member, bool) {
	if m.StartDate == "" {
		m.StartDate = today()
	}
	if err := m.FillExpiry(); err != nil {
		badRequest(w, err)
		return member.Member{}, false
	}
	if err := m.Validate(); err != nil {
		badRequest(w, err)
		return member.Member{}, false
	}
	saved, err := orchestrators.ExecuteSaveMember(r.Context(), orchestrators.SaveMemberInput{Member: m}, orchestrators.SaveMemberDeps{
		MemberStore:  stores.MemberStore,
		TrainerStore: stores.TrainerStore,
	})
	if errors.Is(err, orchestrators.ErrUnknownTrainer) {
		badRequest(w, err)
		return member.Member{}, false
	}
	if err != nil {
		storeError(w, err)
		return member.Member{}, false
	}
	return saved, true
}

// handleMembers handles GET/POST/PUT/DELETE for /api/members
func handleMembers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		filter := memberStore.ListFilter{Today: today()}
		if raw := r.URL.Query().Get("trainer_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				badRequest(w, errors.New("trainer_id must be an integer"))
				return
			}
			filter.TrainerID = id
		}
		list, err := stores.MemberStore.List(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, list)

	case http.MethodPost:
		var input memberInput
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		saved, ok := saveMember(w, r, input.toMember(0))
		if !ok {
			return
		}
		writeCreated(w, saved.ID)

	case http.MethodPut:
		id, err := queryID(r, "id")
		if err != nil {
			badRequest(w, err)
			return
		}
		var input memberInput
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		if _, ok := saveMember(w, r, input.toMember(id)); !ok {
			return
		}
		writeSuccess(w)

	case http.MethodDelete:
		id, err := queryID(r, "id")
		if err != nil {
			badRequest(w, err)
			return
		}
		if err := stores.MemberStore.Delete(ctx, id); err != nil {
			storeError(w, err)
			return
		}
		writeSuccess(w)

	default:
		methodNotAllowed(w)
	}
}

// handleTrainers handles GET/POST/PUT/DELETE for /api/trainers
func handleTrainers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		list, err := stores.TrainerStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, list)

	case http.MethodPost, http.MethodPut:
		var id int64
		if r.Method == http.MethodPut {
			var err error
			if id, err = queryID(r, "id"); err != nil {
				badRequest(w, err)
				return
			}
		}
		var input struct {
			Name      string `json:"name"`
			Specialty string `json:"specialty"`
			Phone     string `json:"phone"`
		}
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		t := trainer.Trainer{ID: id, Name: input.Name, Specialty: input.Specialty, Phone: input.Phone}
		if err := t.Validate(); err != nil {
			badRequest(w, err)
			return
		}
		if err := stores.TrainerStore.Save(ctx, &t); err != nil {
			storeError(w, err)
			return
		}
		if id == 0 {
			writeCreated(w, t.ID)
			return
		}
		writeSuccess(w)

	case http.MethodDelete:
		id, err := queryID(r, "id")
		if err != nil {
			badRequest(w, err)
			return
		}
		err = orchestrators.ExecuteDeleteTrainer(ctx, id, orchestrators.DeleteTrainerDeps{
			TrainerStore: stores.TrainerStore,
			MemberStore:  stores.MemberStore,
		})
		if err != nil {
			storeError(w, err)
			return
		}
		writeSuccess(w)

	default:
		methodNotAllowed(w)
	}
}

// handleMachines handles GET/POST/PUT/DELETE for /api/machines
func handleMachines(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		list, err := stores.MachineStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, list)

	case http.MethodPost, http.MethodPut:
		var id int64
		if r.Method == http.MethodPut {
			var err error
			if id, err = queryID(r, "id"); err != nil {
				badRequest(w, err)
				return
			}
		}
		var input struct {
			Name            string `json:"name"`
			Status          string `json:"status"`
			LastMaintenance string `json:"last_maintenance"`
			NextMaintenance string `json:"next_maintenance"`
		}
		if err := strictDecode(w, r, &input); err != nil {
			badRequest(w, err)
			return
		}
		m := machine.Machine{
			ID:              id,
			Name:            input.Name,
			Status:          input.Status,
			LastMaintenance: input.LastMaintenance,
			NextMaintenance: input.NextMaintenance,
		}
		if err := m.Validate(); err != nil {
			badRequest(w, err)
			return
		}
		if err := stores.MachineStore.Save(ctx, &m); err != nil {
			storeError(w, err)
			return
		}
		if id == 0 {
			writeCreated(w, m.ID)
			return
		}
		writeSuccess(w)

	case http.MethodDelete:
		id, err := queryID(r, "id")
		if err != nil {
			badRequest(w, err)
			return
		}
		if err := stores.MachineStore.Delete(ctx, id); err != nil {
			storeError(w, err)
			return
		}
		writeSuccess(w)

	default:
		methodNotAllowed(w)
	}
}
