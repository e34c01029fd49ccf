package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kakapo-ui/kakapo/pkg/view"
)

// tracerName is the default tracer name.
const tracerName = "kakapo"

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func (w *Window) startRenderSpan(ctx context.Context) (context.Context, trace.Span) {
	return w.tracer.Start(ctx, "kakapo.render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("kakapo.window", w.title),
			attribute.Int64("kakapo.raises", int64(w.refs.Raises())),
		),
	)
}

func (w *Window) startPressSpan(ctx context.Context, id view.ID) (context.Context, trace.Span) {
	return w.tracer.Start(ctx, "kakapo.press",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("kakapo.window", w.title),
			attribute.String("kakapo.widget_id", id.String()),
		),
	)
}

func setRenderAttributes(span trace.Span, tree *view.WidgetTree) {
	span.SetAttributes(
		attribute.Int64("kakapo.generation", int64(tree.Generation)),
		attribute.Int("kakapo.patches", len(tree.Patches)),
		attribute.Int("kakapo.widgets", tree.Len()),
	)
}

// endSpan ends span, marking it failed if the caller is panicking. The
// panic continues.
func endSpan(span trace.Span) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Error, fmt.Sprint(r))
		}
		span.End()
		panic(r)
	}
	span.End()
}
