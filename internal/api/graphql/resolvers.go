package graphql

import (
	"strings"
	"time"

	gql "github.com/graphql-go/graphql"
	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/internal/api/metrics"
	"github.com/schedulr/appointments-api/internal/api/middleware"
	"github.com/schedulr/appointments-api/internal/core/domain"
	"github.com/schedulr/appointments-api/internal/core/ports"
)

// Resolver maps GraphQL fields onto the services. The caller is read from the
// request context once per field and passed explicitly to the service.
type Resolver struct {
	auth         ports.AuthService
	users        ports.UserService
	appointments ports.AppointmentService
	log          zerolog.Logger
}

func NewResolver(auth ports.AuthService, users ports.UserService, appointments ports.AppointmentService, log zerolog.Logger) *Resolver {
	return &Resolver{
		auth:         auth,
		users:        users,
		appointments: appointments,
		log:          log,
	}
}

func (r *Resolver) fail(p gql.ResolveParams, err error) error {
	return presentError(r.log, p.Info.FieldName, err)
}

func caller(p gql.ResolveParams) *domain.User {
	return middleware.UserFromContext(p.Context)
}

func (r *Resolver) Me(p gql.ResolveParams) (interface{}, error) {
	user, err := r.users.Me(p.Context, caller(p))
	if err != nil {
		return nil, r.fail(p, err)
	}
	if user == nil {
		return nil, nil
	}
	return user, nil
}

func (r *Resolver) Users(p gql.ResolveParams) (interface{}, error) {
	users, err := r.users.List(p.Context, caller(p))
	if err != nil {
		return nil, r.fail(p, err)
	}
	return users, nil
}

func (r *Resolver) Appointments(p gql.ResolveParams) (interface{}, error) {
	list, err := r.appointments.List(p.Context, caller(p))
	if err != nil {
		return nil, r.fail(p, err)
	}
	return list, nil
}

func (r *Resolver) MyAppointments(p gql.ResolveParams) (interface{}, error) {
	list, err := r.appointments.ListMine(p.Context, caller(p))
	if err != nil {
		return nil, r.fail(p, err)
	}
	return list, nil
}

func (r *Resolver) Appointment(p gql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	a, err := r.appointments.Get(p.Context, caller(p), id)
	if err != nil {
		return nil, r.fail(p, err)
	}
	return a, nil
}

func (r *Resolver) Register(p gql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)
	name, _ := p.Args["name"].(string)

	result, err := r.auth.Register(p.Context, ports.RegisterInput{Email: email, Password: password, Name: name})
	metrics.AuthAttemptsTotal.WithLabelValues("register", authResult(err)).Inc()
	if err != nil {
		return nil, r.fail(p, err)
	}
	return result, nil
}

func (r *Resolver) Login(p gql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	result, err := r.auth.Login(p.Context, email, password)
	metrics.AuthAttemptsTotal.WithLabelValues("login", authResult(err)).Inc()
	if err != nil {
		return nil, r.fail(p, err)
	}
	return result, nil
}

func (r *Resolver) CreateAppointment(p gql.ResolveParams) (interface{}, error) {
	input, _ := p.Args["input"].(map[string]interface{})

	in := ports.CreateAppointmentInput{}
	in.Title, _ = input["title"].(string)
	in.Description = optionalString(input, "description")
	if t := optionalTime(input, "startTime"); t != nil {
		in.StartTime = *t
	}
	if t := optionalTime(input, "endTime"); t != nil {
		in.EndTime = *t
	}
	if s := optionalStatus(input, "status"); s != nil {
		in.Status = *s
	}

	a, err := r.appointments.Create(p.Context, caller(p), in)
	if err != nil {
		return nil, r.fail(p, err)
	}
	metrics.AppointmentMutationsTotal.WithLabelValues("create").Inc()
	return a, nil
}

func (r *Resolver) UpdateAppointment(p gql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	input, _ := p.Args["input"].(map[string]interface{})

	patch := domain.AppointmentPatch{
		Title:       optionalString(input, "title"),
		Description: clearableString(input, "description"),
		StartTime:   optionalTime(input, "startTime"),
		EndTime:     optionalTime(input, "endTime"),
		Status:      optionalStatus(input, "status"),
	}

	a, err := r.appointments.Update(p.Context, caller(p), id, patch)
	if err != nil {
		return nil, r.fail(p, err)
	}
	metrics.AppointmentMutationsTotal.WithLabelValues("update").Inc()
	return a, nil
}

func (r *Resolver) DeleteAppointment(p gql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	deleted, err := r.appointments.Delete(p.Context, caller(p), id)
	if err != nil {
		return nil, r.fail(p, err)
	}
	if deleted {
		metrics.AppointmentMutationsTotal.WithLabelValues("delete").Inc()
	}
	return deleted, nil
}

// Input fields that were omitted (or sent as null) come back as nil so the
// service leaves them untouched.

func optionalString(input map[string]interface{}, key string) *string {
	v, ok := input[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// clearableString is like optionalString, except that a key sent as null
// yields a pointer to "" so the field is cleared.
func clearableString(input map[string]interface{}, key string) *string {
	v, present := input[key]
	if !present {
		return nil
	}
	s, _ := v.(string)
	return &s
}

func optionalTime(input map[string]interface{}, key string) *time.Time {
	switch v := input[key].(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	}
	return nil
}

func optionalStatus(input map[string]interface{}, key string) *domain.AppointmentStatus {
	switch v := input[key].(type) {
	case domain.AppointmentStatus:
		return &v
	case string:
		s := domain.AppointmentStatus(v)
		return &s
	}
	return nil
}

func authResult(err error) string {
	if err == nil {
		return "success"
	}
	return strings.ToLower(domain.Code(err))
}
