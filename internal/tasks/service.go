package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const emptyStatsMessage = "No tasks yet"

// Service owns task lifecycle rules: id and timestamp assignment,
// validation before mutation, and patch merging.
type Service struct {
	repo   Repository
	logger *slog.Logger
	tracer trace.Tracer

	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
		tracer: otel.Tracer("tasks"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// observe closes the span for op and records its outcome.
func (s *Service) observe(span trace.Span, op string, err error) {
	o := outcome(err)
	operationsTotal.WithLabelValues(op, o).Inc()
	span.SetAttributes(attribute.String("tasks.outcome", o))
	if o == "error" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("task_store_error", slog.String("op", op), slog.String("error", err.Error()))
	}
	span.End()
}

func (s *Service) Create(ctx context.Context, in NewTask) (t Task, err error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Create")
	defer func() { s.observe(span, "create", err) }()

	if err := validationErr(ValidateNew(in)); err != nil {
		return Task{}, err
	}
	status := StatusPending
	if in.Status.Set {
		status = in.Status.Value
	}

	now := s.now()
	t = Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return Task{}, err
	}
	span.SetAttributes(attribute.String("task.id", t.ID))
	s.logger.Debug("task_created", slog.String("id", t.ID))
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (t Task, err error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Get", trace.WithAttributes(attribute.String("task.id", id)))
	defer func() { s.observe(span, "get", err) }()

	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, q ListQuery) (out []Task, err error) {
	ctx, span := s.tracer.Start(ctx, "tasks.List")
	defer func() { s.observe(span, "list", err) }()

	if err := validationErr(ValidateListQuery(q)); err != nil {
		return nil, err
	}
	out, err = s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("tasks.returned", len(out)))
	return out, nil
}

// Update applies only the fields present in p and refreshes updated_at.
func (s *Service) Update(ctx context.Context, id string, p Patch) (t Task, err error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Update", trace.WithAttributes(attribute.String("task.id", id)))
	defer func() { s.observe(span, "update", err) }()

	// An invalid patch against a missing id reports not found first.
	fieldErrs := ValidatePatch(p)
	return s.repo.Update(ctx, id, func(cur Task) (Task, error) {
		if err := validationErr(fieldErrs); err != nil {
			return Task{}, err
		}
		next := p.Apply(cur)
		next.UpdatedAt = s.now()
		if next.UpdatedAt.Before(cur.CreatedAt) {
			next.UpdatedAt = cur.CreatedAt
		}
		return next, nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Delete", trace.WithAttributes(attribute.String("task.id", id)))
	defer func() { s.observe(span, "delete", err) }()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("task_deleted", slog.String("id", id))
	return nil
}

func (s *Service) Count(ctx context.Context) (n int, err error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Count")
	defer func() { s.observe(span, "count", err) }()

	return s.repo.Count(ctx)
}

// Stats reports totals per status. An empty store yields an empty
// breakdown and a message instead of zeroed counters.
func (s *Service) Stats(ctx context.Context) (st Stats, err error) {
	ctx, span := s.tracer.Start(ctx, "tasks.Stats")
	defer func() { s.observe(span, "stats", err) }()

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}

	st.ByStatus = make(map[Status]int, len(Statuses))
	for _, n := range counts {
		st.Total += n
	}
	if st.Total == 0 {
		st.Message = emptyStatsMessage
		return st, nil
	}
	for _, status := range Statuses {
		st.ByStatus[status] = counts[status]
	}
	return st, nil
}
