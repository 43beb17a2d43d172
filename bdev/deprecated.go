package bdev

import (
	"context"
	"encoding/json"
)

// Each function below sends the current method name with the same
// parameters as its replacement; the legacy names only exist here.

// Deprecated: use CompressCreate.
func ConstructCompressBdev(ctx context.Context, c Caller, req CompressCreateRequest) (json.RawMessage, error) {
	return CompressCreate(ctx, c, req)
}

// Deprecated: use CompressDelete.
func DeleteCompressBdev(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return CompressDelete(ctx, c, name)
}

// Deprecated: use CryptoCreate.
func ConstructCryptoBdev(ctx context.Context, c Caller, req CryptoCreateRequest) (json.RawMessage, error) {
	return CryptoCreate(ctx, c, req)
}

// Deprecated: use CryptoDelete.
func DeleteCryptoBdev(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return CryptoDelete(ctx, c, name)
}

// Deprecated: use OCFCreate.
func ConstructOCFBdev(ctx context.Context, c Caller, req OCFCreateRequest) (json.RawMessage, error) {
	return OCFCreate(ctx, c, req)
}

// Deprecated: use OCFDelete.
func DeleteOCFBdev(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return OCFDelete(ctx, c, name)
}

// Deprecated: use OCFGetStats.
func GetOCFStats(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return OCFGetStats(ctx, c, name)
}

// Deprecated: use OCFGetBdevs.
func GetOCFBdevs(ctx context.Context, c Caller, req OCFGetBdevsRequest) (json.RawMessage, error) {
	return OCFGetBdevs(ctx, c, req)
}

// Deprecated: use MallocCreate.
func ConstructMallocBdev(ctx context.Context, c Caller, req MallocCreateRequest) (json.RawMessage, error) {
	return MallocCreate(ctx, c, req)
}

// Deprecated: use MallocDelete.
func DeleteMallocBdev(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return MallocDelete(ctx, c, name)
}

// Deprecated: use NullCreate.
func ConstructNullBdev(ctx context.Context, c Caller, req NullCreateRequest) (json.RawMessage, error) {
	return NullCreate(ctx, c, req)
}

// Deprecated: use NullDelete.
func DeleteNullBdev(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return NullDelete(ctx, c, name)
}

// Deprecated: use AioCreate.
func ConstructAioBdev(ctx context.Context, c Caller, req AioCreateRequest) (json.RawMessage, error) {
	return AioCreate(ctx, c, req)
}

// Deprecated: use AioDelete.
func DeleteAioBdev(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return AioDelete(ctx, c, name)
}

// Deprecated: use NvmeSetOptions.
func SetBdevNvmeOptions(ctx context.Context, c Caller, req NvmeSetOptionsRequest) (json.RawMessage, error) {
	return NvmeSetOptions(ctx, c, req)
}

// Deprecated: use NvmeSetHotplug.
func SetBdevNvmeHotplug(ctx context.Context, c Caller, req NvmeSetHotplugRequest) (json.RawMessage, error) {
	return NvmeSetHotplug(ctx, c, req)
}

// Deprecated: use ErrorCreate.
func ConstructErrorBdev(ctx context.Context, c Caller, baseName string) (json.RawMessage, error) {
	return ErrorCreate(ctx, c, baseName)
}

// Deprecated: use ErrorDelete.
func DeleteErrorBdev(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return ErrorDelete(ctx, c, name)
}

// Deprecated: use ErrorInjectError.
func InjectError(ctx context.Context, c Caller, req ErrorInjectErrorRequest) (json.RawMessage, error) {
	return ErrorInjectError(ctx, c, req)
}

// Deprecated: use IscsiCreate.
func ConstructIscsiBdev(ctx context.Context, c Caller, req IscsiCreateRequest) (json.RawMessage, error) {
	return IscsiCreate(ctx, c, req)
}

// Deprecated: use IscsiDelete.
func DeleteIscsiBdev(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return IscsiDelete(ctx, c, name)
}

// Deprecated: use PmemCreate.
func ConstructPmemBdev(ctx context.Context, c Caller, pmemFile, name string) (json.RawMessage, error) {
	return PmemCreate(ctx, c, pmemFile, name)
}

// Deprecated: use PmemDelete.
func DeletePmemBdev(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return PmemDelete(ctx, c, name)
}

// Deprecated: use NvmeApplyFirmware.
func ApplyFirmware(ctx context.Context, c Caller, bdevName, filename string) (json.RawMessage, error) {
	return NvmeApplyFirmware(ctx, c, bdevName, filename)
}
