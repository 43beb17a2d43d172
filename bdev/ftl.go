package bdev

import (
	"context"
	"encoding/json"
	"math"
	"regexp"

	"github.com/pkg/errors"
)

// ExtraValue is a scalar passed through to the target under a key the typed
// request fields do not cover. It is implemented by IntValue, UintValue,
// FloatValue, StringValue and BoolValue only.
type ExtraValue interface {
	extraValue() any
}

type (
	IntValue    int64
	UintValue   uint64
	FloatValue  float64
	StringValue string
	BoolValue   bool
)

func (v IntValue) extraValue() any { return int64(v) }
func (v UintValue) extraValue() any { return uint64(v) }
func (v FloatValue) extraValue() any { return float64(v) }
func (v StringValue) extraValue() any { return string(v) }
func (v BoolValue) extraValue() any { return bool(v) }

var extraKeyRegexp = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// FtlCreateRequest describes an FTL bdev on an Open Channel SSD.
type FtlCreateRequest struct {
	Name   string
	TrType NvmeTransportType
	TrAddr string
	// Parallel unit range, e.g. "0-3".
	Punits string

	// Restores an existing device instead of creating a new one.
	UUID *string
	// Name of the bdev used as the write buffer cache.
	Cache            *string
	AllowOpenBands   *bool
	Overprovisioning *uint32
	L2PPath          *string
	UseAppend        *bool

	// Extra is merged into the parameters. Nil values are skipped.
	Extra map[string]ExtraValue
}

func (r FtlCreateRequest) params() (map[string]any, error) {
	params := map[string]any{
		"name":   r.Name,
		"trtype": r.TrType,
		"traddr": r.TrAddr,
		"punits": r.Punits,
	}
	optional := map[string]any{
		"uuid":             r.UUID,
		"cache":            r.Cache,
		"allow_open_bands": r.AllowOpenBands,
		"overprovisioning": r.Overprovisioning,
		"l2p_path":         r.L2PPath,
		"use_append":       r.UseAppend,
	}

	for key, value := range r.Extra {
		if !extraKeyRegexp.MatchString(key) {
			return nil, errors.Wrapf(ErrInvalidArgument, "invalid parameter name %q", key)
		}
		if _, ok := params[key]; ok {
			return nil, errors.Wrapf(ErrInvalidArgument, "parameter %v cannot be overridden", key)
		}
		if _, ok := optional[key]; ok {
			return nil, errors.Wrapf(ErrInvalidArgument, "parameter %v has a dedicated field", key)
		}
		if value == nil {
			continue
		}
		if f, ok := value.(FloatValue); ok && (math.IsInf(float64(f), 0) || math.IsNaN(float64(f))) {
			return nil, errors.Wrapf(ErrInvalidArgument, "parameter %v is not a finite number", key)
		}
		params[key] = value.extraValue()
	}

	if r.UUID != nil {
		params["uuid"] = *r.UUID
	}
	if r.Cache != nil {
		params["cache"] = *r.Cache
	}
	if r.AllowOpenBands != nil {
		params["allow_open_bands"] = *r.AllowOpenBands
	}
	if r.Overprovisioning != nil {
		params["overprovisioning"] = *r.Overprovisioning
	}
	if r.L2PPath != nil {
		params["l2p_path"] = *r.L2PPath
	}
	if r.UseAppend != nil {
		params["use_append"] = *r.UseAppend
	}
	return params, nil
}

func (r FtlCreateRequest) MarshalJSON() ([]byte, error) {
	params, err := r.params()
	if err != nil {
		return nil, err
	}
	return json.Marshal(params)
}

// FtlCreate constructs an FTL bdev and returns its name and UUID.
func FtlCreate(ctx context.Context, c Caller, req FtlCreateRequest) (json.RawMessage, error) {
	if err := validateUUID("uuid", req.UUID); err != nil {
		return nil, err
	}
	params, err := req.params()
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, MethodFtlCreate, params)
}

func FtlDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodFtlDelete, name)
}
