package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/mini-erp/internal/user/domain"
)

var tracer = otel.Tracer("user-repository")

// TracingUserRepository wraps a UserRepository with spans. Password hashes
// and emails never become span attributes.
type TracingUserRepository struct {
	next domain.UserRepository
}

// NewTracingUserRepository decorates next with tracing
func NewTracingUserRepository(next domain.UserRepository) *TracingUserRepository {
	return &TracingUserRepository{next: next}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "repository.user."+name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *TracingUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := startSpan(ctx, "Create",
		attribute.String("user.username", user.Username),
		attribute.String("user.role", user.Role),
	)
	err := r.next.Create(ctx, user)
	if err == nil {
		span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	}
	finish(span, err)
	return err
}

func (r *TracingUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	ctx, span := startSpan(ctx, "FindByID", attribute.Int("user.id", int(id)))
	user, err := r.next.FindByID(ctx, id)
	finish(span, err)
	return user, err
}

func (r *TracingUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := startSpan(ctx, "FindByUsername", attribute.String("user.username", username))
	user, err := r.next.FindByUsername(ctx, username)
	if err == nil {
		span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	}
	finish(span, err)
	return user, err
}

func (r *TracingUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := startSpan(ctx, "FindByEmail")
	user, err := r.next.FindByEmail(ctx, email)
	finish(span, err)
	return user, err
}

func (r *TracingUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	ctx, span := startSpan(ctx, "FindAll",
		attribute.Int("query.limit", limit),
		attribute.Int("query.offset", offset),
	)
	users, err := r.next.FindAll(ctx, limit, offset)
	span.SetAttributes(attribute.Int("result.count", len(users)))
	finish(span, err)
	return users, err
}

func (r *TracingUserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	ctx, span := startSpan(ctx, "UpdateRole",
		attribute.Int("user.id", int(id)),
		attribute.String("user.role", role),
	)
	err := r.next.UpdateRole(ctx, id, role)
	finish(span, err)
	return err
}

func (r *TracingUserRepository) SetActive(ctx context.Context, id uint, active bool) error {
	ctx, span := startSpan(ctx, "SetActive",
		attribute.Int("user.id", int(id)),
		attribute.Bool("user.is_active", active),
	)
	err := r.next.SetActive(ctx, id, active)
	finish(span, err)
	return err
}

func (r *TracingUserRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := startSpan(ctx, "Count")
	count, err := r.next.Count(ctx)
	span.SetAttributes(attribute.Int64("result.count", count))
	finish(span, err)
	return count, err
}
