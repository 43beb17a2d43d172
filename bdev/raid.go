package bdev

import (
	"context"
	"encoding/json"
	"strings"
)

type raidGetBdevsRequest struct {
	Category RaidCategory `json:"category"`
}

// RaidGetBdevs lists the names of raid bdevs in category.
func RaidGetBdevs(ctx context.Context, c Caller, category RaidCategory) (json.RawMessage, error) {
	return c.Call(ctx, MethodRaidGetBdevs, raidGetBdevsRequest{Category: category})
}

// RaidCreateRequest describes a raid bdev. One of StripSizeKB and the older
// StripSize must be set.
type RaidCreateRequest struct {
	Name      string
	RaidLevel string
	BaseBdevs []string
	// Deprecated: use StripSizeKB.
	StripSize   *uint32
	StripSizeKB *uint32
}

type raidCreateWire struct {
	Name      string `json:"name"`
	RaidLevel string `json:"raid_level"`
	// Space separated, e.g. "Nvme0n1 Nvme1n1".
	BaseBdevs   string  `json:"base_bdevs"`
	StripSize   *uint32 `json:"strip_size,omitempty"`
	StripSizeKB *uint32 `json:"strip_size_kb,omitempty"`
}

func (r RaidCreateRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(raidCreateWire{
		Name:        r.Name,
		RaidLevel:   r.RaidLevel,
		BaseBdevs:   strings.Join(r.BaseBdevs, " "),
		StripSize:   r.StripSize,
		StripSizeKB: r.StripSizeKB,
	})
}

func RaidCreate(ctx context.Context, c Caller, req RaidCreateRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodRaidCreate, req)
}

func RaidDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodRaidDelete, name)
}
