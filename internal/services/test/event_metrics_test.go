package services_test

import (
	"context"
	"testing"

	"github.com/bionicotaku/lingo-services-captions/internal/repositories"
	"github.com/bionicotaku/lingo-services-captions/internal/services/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestCaptionEventsAreMetered(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	t.Cleanup(func() { otel.SetMeterProvider(previous) })

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	outbox := mocks.NewMockOutboxEnqueuer(ctrl)
	gomock.InOrder(
		outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(repositories.ErrForeignAggregate),
	)

	env := newTestEnv()
	svc := env.captionService(nil, nil, outbox)

	_, err := svc.Submit(ctx, env.captioner("alice"), submitInput("v1"))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, env.captioner("bob"), submitInput("v2"))
	requireInternal(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	var failures []string
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
				if kind, ok := dp.Attributes.Value("failure"); ok {
					failures = append(failures, kind.AsString())
				}
				if source, ok := dp.Attributes.Value("video_source"); ok {
					require.Equal(t, "0", source.AsString())
				}
			}
		}
	}
	require.EqualValues(t, 1, totals["captions_events_enqueued_total"])
	require.EqualValues(t, 1, totals["captions_events_enqueue_failures_total"])
	require.Equal(t, []string{"foreign_aggregate"}, failures)
}
