package bdev

import (
	"context"
	"encoding/json"
)

type GetBdevsRequest struct {
	// Every bdev is returned when nil.
	Name *string `json:"name,omitempty"`
}

func GetBdevs(ctx context.Context, c Caller, req GetBdevsRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodGetBdevs, req)
}

// GetIostat returns I/O statistics of one bdev or, when req.Name is nil, of all.
func GetIostat(ctx context.Context, c Caller, req GetBdevsRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodGetIostat, req)
}

type enableHistogramRequest struct {
	Name   string `json:"name"`
	Enable bool   `json:"enable"`
}

func EnableHistogram(ctx context.Context, c Caller, name string, enable bool) (json.RawMessage, error) {
	return c.Call(ctx, MethodEnableHistogram, enableHistogramRequest{Name: name, Enable: enable})
}

func GetHistogram(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodGetHistogram, name)
}

type setQdSamplingPeriodRequest struct {
	Name   string `json:"name"`
	Period uint64 `json:"period"`
}

// SetQdSamplingPeriod enables queue depth tracking on name, sampled every
// period microseconds. A period of 0 disables it.
func SetQdSamplingPeriod(ctx context.Context, c Caller, name string, period uint64) (json.RawMessage, error) {
	return c.Call(ctx, MethodSetQdSamplingPeriod, setQdSamplingPeriodRequest{Name: name, Period: period})
}

// SetQosLimitRequest limits are left unchanged when nil. An explicit 0
// removes the limit.
type SetQosLimitRequest struct {
	Name           string  `json:"name"`
	RwIosPerSec    *uint64 `json:"rw_ios_per_sec,omitempty"`
	RwMbytesPerSec *uint64 `json:"rw_mbytes_per_sec,omitempty"`
	RMbytesPerSec  *uint64 `json:"r_mbytes_per_sec,omitempty"`
	WMbytesPerSec  *uint64 `json:"w_mbytes_per_sec,omitempty"`
}

func SetQosLimit(ctx context.Context, c Caller, req SetQosLimitRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodSetQosLimit, req)
}
