// Package graphql exposes the platform's operations as a GraphQL API
// parallel to the REST surface, backed by the same services.
package graphql

import (
	"context"
	"errors"
	"fmt"

	gql "github.com/graphql-go/graphql"

	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/service"
)

type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity attaches the authenticated requester to a context.
func WithIdentity(ctx context.Context, identity service.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// identityFrom extracts the requester from the resolver context.
func identityFrom(ctx context.Context) (service.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(service.Identity)
	return identity, ok
}

var errUnauthenticated = errors.New("authentication required")
var errForbidden = errors.New("permission denied")

func errMissingArg(name string) error {
	return fmt.Errorf("argument %q is required", name)
}

func requireIdentity(p gql.ResolveParams) (service.Identity, error) {
	identity, ok := identityFrom(p.Context)
	if !ok {
		return service.Identity{}, errUnauthenticated
	}
	return identity, nil
}

func requireContentManager(p gql.ResolveParams) (service.Identity, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return identity, err
	}
	if !identity.CanManageContent() {
		return identity, errForbidden
	}
	return identity, nil
}

func requireAdmin(p gql.ResolveParams) (service.Identity, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return identity, err
	}
	if !identity.IsAdmin() {
		return identity, errForbidden
	}
	return identity, nil
}

// Resolver carries the services every field resolver dispatches to.
type Resolver struct {
	users     *service.UserService
	subjects  *service.SubjectService
	topics    *service.TopicService
	exams     *service.ExamService
	questions *service.QuestionService
	sessions  *service.SessionService
}

// NewResolver creates a Resolver over the given services.
func NewResolver(
	users *service.UserService,
	subjects *service.SubjectService,
	topics *service.TopicService,
	exams *service.ExamService,
	questions *service.QuestionService,
	sessions *service.SessionService,
) *Resolver {
	return &Resolver{
		users:     users,
		subjects:  subjects,
		topics:    topics,
		exams:     exams,
		questions: questions,
		sessions:  sessions,
	}
}

// argID reads a required integer argument as an int64 ID.
func argID(p gql.ResolveParams, name string) (int64, error) {
	raw, ok := p.Args[name]
	if !ok {
		return 0, fmt.Errorf("argument %q is required", name)
	}
	n, ok := raw.(int)
	if !ok || n < 1 {
		return 0, fmt.Errorf("argument %q must be a positive integer", name)
	}
	return int64(n), nil
}

// optID reads an optional integer argument as an int64 pointer.
func optID(p gql.ResolveParams, name string) *int64 {
	if n, ok := p.Args[name].(int); ok {
		id := int64(n)
		return &id
	}
	return nil
}

// optInt reads an optional integer argument.
func optInt(p gql.ResolveParams, name string) *int {
	if n, ok := p.Args[name].(int); ok {
		return &n
	}
	return nil
}

// optString reads an optional string argument.
func optString(p gql.ResolveParams, name string) *string {
	if s, ok := p.Args[name].(string); ok {
		return &s
	}
	return nil
}

// optBool reads an optional boolean argument.
func optBool(p gql.ResolveParams, name string) *bool {
	if b, ok := p.Args[name].(bool); ok {
		return &b
	}
	return nil
}

// argString reads a required string argument.
func argString(p gql.ResolveParams, name string) (string, error) {
	s, ok := p.Args[name].(string)
	if !ok {
		return "", fmt.Errorf("argument %q is required", name)
	}
	return s, nil
}

// pageArgs reads page/limit with defaults.
func pageArgs(p gql.ResolveParams) (page, limit int) {
	page, limit = 1, 20
	if n, ok := p.Args["page"].(int); ok {
		page = n
	}
	if n, ok := p.Args["limit"].(int); ok {
		limit = n
	}
	return page, limit
}

// optionInputs converts the raw options argument into typed inputs.
func optionInputs(raw any) []model.OptionInput {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	options := make([]model.OptionInput, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		letter, _ := m["optionLetter"].(string)
		text, _ := m["optionText"].(string)
		options = append(options, model.OptionInput{Letter: letter, Text: text})
	}
	return options
}

// settingsArg converts the raw settings argument into a map.
func settingsArg(raw any) map[string]any {
	if m, ok := raw.(map[string]any); ok {
		return m
	}
	return nil
}
