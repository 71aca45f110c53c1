package metrics

import (
	"context"

	pinprovider "github.com/ipni/pin-provider"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/ipni/pin-provider")

var Storage struct {
	Uploads       metric.Int64Counter
	Confirmations metric.Int64Counter
	ExistsChecks  metric.Int64Counter
	Removals      metric.Int64Counter
	BlocksRemoved metric.Int64Counter
	BlocksFailed  metric.Int64Counter
}

var Index struct {
	Records metric.Int64UpDownCounter
}

func init() {
	var err error
	if Storage.Uploads, err = meter.Int64Counter(
		"pin-provider/storage/uploads",
		metric.WithDescription("The number of upload attempts by status"),
	); err != nil {
		panic(err)
	}
	if Storage.Confirmations, err = meter.Int64Counter(
		"pin-provider/storage/pin_confirmations",
		metric.WithDescription("The number of recursive pin confirmations after upload by status"),
	); err != nil {
		panic(err)
	}
	if Storage.ExistsChecks, err = meter.Int64Counter(
		"pin-provider/storage/exists_checks",
		metric.WithDescription("The number of pin existence checks by observed state"),
	); err != nil {
		panic(err)
	}
	if Storage.Removals, err = meter.Int64Counter(
		"pin-provider/storage/removals",
		metric.WithDescription("The number of removal attempts by status"),
	); err != nil {
		panic(err)
	}
	if Storage.BlocksRemoved, err = meter.Int64Counter(
		"pin-provider/storage/blocks_removed",
		metric.WithDescription("The number of blocks reported as removed"),
	); err != nil {
		panic(err)
	}
	if Storage.BlocksFailed, err = meter.Int64Counter(
		"pin-provider/storage/blocks_failed",
		metric.WithDescription("The number of blocks that failed to be removed"),
	); err != nil {
		panic(err)
	}
	if Index.Records, err = meter.Int64UpDownCounter(
		"pin-provider/index/records",
		metric.WithDescription("The number of provider records held in the index"),
	); err != nil {
		panic(err)
	}
}

func RecordUpload(ctx context.Context, ok bool) {
	Storage.Uploads.Add(ctx, 1, metric.WithAttributes(status(ok)))
}

func RecordConfirmation(ctx context.Context, ok bool) {
	Storage.Confirmations.Add(ctx, 1, metric.WithAttributes(status(ok)))
}

func RecordExists(ctx context.Context, state pinprovider.PinState) {
	Storage.ExistsChecks.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state.String())))
}

func RecordRemoval(ctx context.Context, ok bool, removed, failed int) {
	Storage.Removals.Add(ctx, 1, metric.WithAttributes(status(ok)))
	if removed != 0 {
		Storage.BlocksRemoved.Add(ctx, int64(removed))
	}
	if failed != 0 {
		Storage.BlocksFailed.Add(ctx, int64(failed))
	}
}

func RecordIndexChange(ctx context.Context, delta int64) {
	Index.Records.Add(ctx, delta)
}
