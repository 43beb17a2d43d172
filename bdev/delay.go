package bdev

import (
	"context"
	"encoding/json"
)

// DelayCreateRequest latencies are in microseconds. The average values apply
// to 99% of the I/O, the p99 values to the rest.
type DelayCreateRequest struct {
	BaseBdevName    string `json:"base_bdev_name"`
	Name            string `json:"name"`
	AvgReadLatency  uint64 `json:"avg_read_latency"`
	P99ReadLatency  uint64 `json:"p99_read_latency"`
	AvgWriteLatency uint64 `json:"avg_write_latency"`
	P99WriteLatency uint64 `json:"p99_write_latency"`
}

func DelayCreate(ctx context.Context, c Caller, req DelayCreateRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodDelayCreate, req)
}

func DelayDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodDelayDelete, name)
}

type DelayUpdateLatencyRequest struct {
	DelayBdevName string           `json:"delay_bdev_name"`
	LatencyType   DelayLatencyType `json:"latency_type"`
	LatencyUs     uint64           `json:"latency_us"`
}

func DelayUpdateLatency(ctx context.Context, c Caller, req DelayUpdateLatencyRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodDelayUpdateLatency, req)
}
