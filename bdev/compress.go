package bdev

import (
	"context"
	"encoding/json"
)

type CompressCreateRequest struct {
	BaseBdevName string `json:"base_bdev_name"`
	// Directory on persistent memory holding the compression metadata.
	PmPath string `json:"pm_path"`
}

// CompressCreate constructs a compress vbdev and returns its name.
func CompressCreate(ctx context.Context, c Caller, req CompressCreateRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodCompressCreate, req)
}

func CompressDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodCompressDelete, name)
}

type compressSetPMDRequest struct {
	PMD CompressPMD `json:"pmd"`
}

// CompressSetPMD selects the compression driver.
func CompressSetPMD(ctx context.Context, c Caller, pmd CompressPMD) (json.RawMessage, error) {
	return c.Call(ctx, MethodCompressSetPMD, compressSetPMDRequest{PMD: pmd})
}

type CompressGetOrphansRequest struct {
	Name *string `json:"name,omitempty"`
}

// CompressGetOrphans lists compress bdevs whose pmem file is missing. Without
// a name every compress bdev is checked.
func CompressGetOrphans(ctx context.Context, c Caller, req CompressGetOrphansRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodCompressGetOrphans, req)
}
