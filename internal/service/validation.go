package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitly/internal/calculator"
	"github.com/mmynk/splitly/internal/models"
	"github.com/mmynk/splitly/internal/storage"
	api "github.com/mmynk/splitly/pkg/api"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest checks a request's validate tags.
func validateRequest(msg any) error {
	if err := validate.Struct(msg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// toConnectError maps storage errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicateMember):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrNotMember):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func trimName(name string) string {
	return strings.TrimSpace(name)
}

// roster resolves names against a group's current members, ignoring case.
type roster map[string]string

func newRoster(members []*models.Member) roster {
	r := make(roster, len(members))
	for _, m := range members {
		r[strings.ToLower(m.Name)] = m.Name
	}
	return r
}

// resolve returns the member's stored name.
func (r roster) resolve(name string) (string, bool) {
	canonical, ok := r[strings.ToLower(trimName(name))]
	return canonical, ok
}

// newExpense validates an AddExpense request against the group's members
// and builds the expense to store. Names are stored as the members spell them.
func newExpense(msg *api.AddExpenseRequest, members []*models.Member) (*models.Expense, error) {
	if math.IsNaN(msg.Amount) || math.IsInf(msg.Amount, 0) || msg.Amount <= 0 {
		return nil, invalidArgument("amount must be a positive number")
	}
	if msg.Amount > api.MaxExpenseAmount {
		return nil, invalidArgument("amount must not exceed %d", api.MaxExpenseAmount)
	}

	r := newRoster(members)

	if trimName(msg.PaidBy) == "" {
		return nil, invalidArgument("paid_by is required")
	}
	payer, ok := r.resolve(msg.PaidBy)
	if !ok {
		return nil, invalidArgument("payer %q is not a member of the group", trimName(msg.PaidBy))
	}

	if len(msg.Participants) == 0 {
		return nil, invalidArgument("at least one participant is required")
	}
	participants := make([]string, 0, len(msg.Participants))
	seen := make(map[string]bool, len(msg.Participants))
	for _, p := range msg.Participants {
		if trimName(p) == "" {
			return nil, invalidArgument("participant names must not be blank")
		}
		name, ok := r.resolve(p)
		if !ok {
			return nil, invalidArgument("participant %q is not a member of the group", trimName(p))
		}
		if seen[name] {
			return nil, invalidArgument("participant %q is listed more than once", name)
		}
		seen[name] = true
		participants = append(participants, name)
	}

	category := trimName(msg.Category)
	if category == "" {
		category = calculator.DefaultCategory
	}
	if !calculator.IsCategory(category) {
		return nil, invalidArgument("unknown category %q", category)
	}

	description := trimName(msg.Description)
	if description == "" {
		description = models.DefaultDescription
	}

	return &models.Expense{
		GroupID:      msg.GroupId,
		Description:  description,
		Amount:       msg.Amount,
		PaidBy:       payer,
		Participants: participants,
		Category:     category,
	}, nil
}
