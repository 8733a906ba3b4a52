// Package graphql exposes the appointment and account operations as a
// GraphQL schema served over echo.
//
// The schema is assembled in stages: shared named types first, then input
// objects, then the Query and Mutation roots that reference them.
package graphql

import (
	gql "github.com/graphql-go/graphql"

	"github.com/schedulr/appointments-api/internal/core/domain"
)

type schemaTypes struct {
	role        *gql.Enum
	status      *gql.Enum
	user        *gql.Object
	appointment *gql.Object
	authPayload *gql.Object

	appointmentInput       *gql.InputObject
	appointmentUpdateInput *gql.InputObject
}

// NewSchema builds the executable schema backed by r.
func NewSchema(r *Resolver) (gql.Schema, error) {
	t := &schemaTypes{}
	registerEnums(t)
	registerObjects(t)
	registerInputs(t)

	return gql.NewSchema(gql.SchemaConfig{
		Query:    registerQuery(t, r),
		Mutation: registerMutation(t, r),
	})
}

func registerEnums(t *schemaTypes) {
	t.role = gql.NewEnum(gql.EnumConfig{
		Name: "Role",
		Values: gql.EnumValueConfigMap{
			domain.RoleUser:  &gql.EnumValueConfig{Value: domain.RoleUser},
			domain.RoleAdmin: &gql.EnumValueConfig{Value: domain.RoleAdmin},
		},
	})

	statuses := gql.EnumValueConfigMap{}
	for _, s := range []domain.AppointmentStatus{
		domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted,
	} {
		statuses[string(s)] = &gql.EnumValueConfig{Value: s}
	}
	t.status = gql.NewEnum(gql.EnumConfig{
		Name:   "AppointmentStatus",
		Values: statuses,
	})
}

func registerObjects(t *schemaTypes) {
	t.user = gql.NewObject(gql.ObjectConfig{
		Name: "User",
		Fields: gql.Fields{
			"id":        &gql.Field{Type: gql.NewNonNull(gql.ID)},
			"email":     &gql.Field{Type: gql.NewNonNull(gql.String)},
			"name":      &gql.Field{Type: gql.NewNonNull(gql.String)},
			"role":      &gql.Field{Type: gql.NewNonNull(t.role)},
			"createdAt": &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
		},
	})

	t.appointment = gql.NewObject(gql.ObjectConfig{
		Name: "Appointment",
		Fields: gql.Fields{
			"id":    &gql.Field{Type: gql.NewNonNull(gql.ID)},
			"title": &gql.Field{Type: gql.NewNonNull(gql.String)},
			"description": &gql.Field{
				Type: gql.String,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					a, ok := p.Source.(*domain.Appointment)
					if !ok || a.Description == nil {
						return nil, nil
					}
					return *a.Description, nil
				},
			},
			"startTime": &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
			"endTime":   &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
			"userId":    &gql.Field{Type: gql.NewNonNull(gql.ID)},
			"status":    &gql.Field{Type: gql.NewNonNull(t.status)},
			"createdAt": &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
			"updatedAt": &gql.Field{Type: gql.NewNonNull(gql.DateTime)},
		},
	})

	t.authPayload = gql.NewObject(gql.ObjectConfig{
		Name: "AuthPayload",
		Fields: gql.Fields{
			"token": &gql.Field{Type: gql.NewNonNull(gql.String)},
			"user":  &gql.Field{Type: gql.NewNonNull(t.user)},
		},
	})
}

func registerInputs(t *schemaTypes) {
	t.appointmentInput = gql.NewInputObject(gql.InputObjectConfig{
		Name: "AppointmentInput",
		Fields: gql.InputObjectConfigFieldMap{
			"title":       &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
			"description": &gql.InputObjectFieldConfig{Type: gql.String},
			"startTime":   &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.DateTime)},
			"endTime":     &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.DateTime)},
			"status":      &gql.InputObjectFieldConfig{Type: t.status},
		},
	})

	t.appointmentUpdateInput = gql.NewInputObject(gql.InputObjectConfig{
		Name: "AppointmentUpdateInput",
		Fields: gql.InputObjectConfigFieldMap{
			"title":       &gql.InputObjectFieldConfig{Type: gql.String},
			"description": &gql.InputObjectFieldConfig{Type: gql.String},
			"startTime":   &gql.InputObjectFieldConfig{Type: gql.DateTime},
			"endTime":     &gql.InputObjectFieldConfig{Type: gql.DateTime},
			"status":      &gql.InputObjectFieldConfig{Type: t.status},
		},
	})
}

func registerQuery(t *schemaTypes, r *Resolver) *gql.Object {
	appointmentList := gql.NewNonNull(gql.NewList(gql.NewNonNull(t.appointment)))

	return gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"me": &gql.Field{
				Type:    t.user,
				Resolve: r.Me,
			},
			"users": &gql.Field{
				Type:    gql.NewNonNull(gql.NewList(gql.NewNonNull(t.user))),
				Resolve: r.Users,
			},
			"appointments": &gql.Field{
				Type:    appointmentList,
				Resolve: r.Appointments,
			},
			"appointment": &gql.Field{
				Type: t.appointment,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.Appointment,
			},
			"myAppointments": &gql.Field{
				Type:    appointmentList,
				Resolve: r.MyAppointments,
			},
		},
	})
}

func registerMutation(t *schemaTypes, r *Resolver) *gql.Object {
	nonNullString := gql.NewNonNull(gql.String)

	return gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"register": &gql.Field{
				Type: gql.NewNonNull(t.authPayload),
				Args: gql.FieldConfigArgument{
					"email":    &gql.ArgumentConfig{Type: nonNullString},
					"password": &gql.ArgumentConfig{Type: nonNullString},
					"name":     &gql.ArgumentConfig{Type: nonNullString},
				},
				Resolve: r.Register,
			},
			"login": &gql.Field{
				Type: gql.NewNonNull(t.authPayload),
				Args: gql.FieldConfigArgument{
					"email":    &gql.ArgumentConfig{Type: nonNullString},
					"password": &gql.ArgumentConfig{Type: nonNullString},
				},
				Resolve: r.Login,
			},
			"createAppointment": &gql.Field{
				Type: gql.NewNonNull(t.appointment),
				Args: gql.FieldConfigArgument{
					"input": &gql.ArgumentConfig{Type: gql.NewNonNull(t.appointmentInput)},
				},
				Resolve: r.CreateAppointment,
			},
			"updateAppointment": &gql.Field{
				Type: gql.NewNonNull(t.appointment),
				Args: gql.FieldConfigArgument{
					"id":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
					"input": &gql.ArgumentConfig{Type: gql.NewNonNull(t.appointmentUpdateInput)},
				},
				Resolve: r.UpdateAppointment,
			},
			"deleteAppointment": &gql.Field{
				Type: gql.NewNonNull(gql.Boolean),
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.DeleteAppointment,
			},
		},
	})
}
