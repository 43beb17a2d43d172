package bdev

import "sort"

const (
	MethodSetOptions = "set_bdev_options"

	MethodCompressCreate     = "bdev_compress_create"
	MethodCompressDelete     = "bdev_compress_delete"
	MethodCompressSetPMD     = "set_compress_pmd"
	MethodCompressGetOrphans = "bdev_compress_get_orphans"

	MethodCryptoCreate = "bdev_crypto_create"
	MethodCryptoDelete = "bdev_crypto_delete"

	MethodOCFCreate   = "bdev_ocf_create"
	MethodOCFDelete   = "bdev_ocf_delete"
	MethodOCFGetStats = "bdev_ocf_get_stats"
	MethodOCFGetBdevs = "bdev_ocf_get_bdevs"

	MethodMallocCreate = "bdev_malloc_create"
	MethodMallocDelete = "bdev_malloc_delete"

	MethodNullCreate = "bdev_null_create"
	MethodNullDelete = "bdev_null_delete"

	MethodRaidGetBdevs = "get_raid_bdevs"
	MethodRaidCreate   = "construct_raid_bdev"
	MethodRaidDelete   = "destroy_raid_bdev"

	MethodAioCreate = "bdev_aio_create"
	MethodAioDelete = "bdev_aio_delete"

	MethodNvmeSetOptions       = "bdev_nvme_set_options"
	MethodNvmeSetHotplug       = "bdev_nvme_set_hotplug"
	MethodNvmeAttachController = "construct_nvme_bdev"
	MethodNvmeDetachController = "delete_nvme_controller"
	MethodNvmeApplyFirmware    = "bdev_nvme_apply_firmware"

	MethodRbdCreate = "construct_rbd_bdev"
	MethodRbdDelete = "delete_rbd_bdev"

	MethodErrorCreate      = "bdev_error_create"
	MethodErrorDelete      = "bdev_error_delete"
	MethodErrorInjectError = "bdev_error_inject_error"

	MethodDelayCreate        = "bdev_delay_create"
	MethodDelayDelete        = "bdev_delay_delete"
	MethodDelayUpdateLatency = "bdev_delay_update_latency"

	MethodIscsiCreate = "bdev_iscsi_create"
	MethodIscsiDelete = "bdev_iscsi_delete"

	MethodPmemCreate = "bdev_pmem_create"
	MethodPmemDelete = "bdev_pmem_delete"

	MethodPassthruCreate = "construct_passthru_bdev"
	MethodPassthruDelete = "delete_passthru_bdev"

	MethodSplitCreate = "construct_split_vbdev"
	MethodSplitDelete = "destruct_split_vbdev"

	MethodFtlCreate = "construct_ftl_bdev"
	MethodFtlDelete = "delete_ftl_bdev"

	MethodGetBdevs            = "get_bdevs"
	MethodGetIostat           = "get_bdevs_iostat"
	MethodEnableHistogram     = "enable_bdev_histogram"
	MethodGetHistogram        = "get_bdev_histogram"
	MethodSetQdSamplingPeriod = "set_bdev_qd_sampling_period"
	MethodSetQosLimit         = "set_bdev_qos_limit"
)

// DeprecatedAliases maps each legacy method name to its current name. Older
// targets only know the legacy names; newer ones accept both.
var DeprecatedAliases = map[string]string{
	"construct_compress_bdev": MethodCompressCreate,
	"delete_compress_bdev":    MethodCompressDelete,
	"construct_crypto_bdev":   MethodCryptoCreate,
	"delete_crypto_bdev":      MethodCryptoDelete,
	"construct_ocf_bdev":      MethodOCFCreate,
	"delete_ocf_bdev":         MethodOCFDelete,
	"get_ocf_stats":           MethodOCFGetStats,
	"get_ocf_bdevs":           MethodOCFGetBdevs,
	"construct_malloc_bdev":   MethodMallocCreate,
	"delete_malloc_bdev":      MethodMallocDelete,
	"construct_null_bdev":     MethodNullCreate,
	"delete_null_bdev":        MethodNullDelete,
	"construct_aio_bdev":      MethodAioCreate,
	"delete_aio_bdev":         MethodAioDelete,
	"set_bdev_nvme_options":   MethodNvmeSetOptions,
	"set_bdev_nvme_hotplug":   MethodNvmeSetHotplug,
	"construct_error_bdev":    MethodErrorCreate,
	"delete_error_bdev":       MethodErrorDelete,
	"bdev_inject_error":       MethodErrorInjectError,
	"construct_iscsi_bdev":    MethodIscsiCreate,
	"delete_iscsi_bdev":       MethodIscsiDelete,
	"construct_pmem_bdev":     MethodPmemCreate,
	"delete_pmem_bdev":        MethodPmemDelete,
	"apply_firmware":          MethodNvmeApplyFirmware,
}

var methods = []string{
	MethodSetOptions,
	MethodCompressCreate, MethodCompressDelete, MethodCompressSetPMD, MethodCompressGetOrphans,
	MethodCryptoCreate, MethodCryptoDelete,
	MethodOCFCreate, MethodOCFDelete, MethodOCFGetStats, MethodOCFGetBdevs,
	MethodMallocCreate, MethodMallocDelete,
	MethodNullCreate, MethodNullDelete,
	MethodRaidGetBdevs, MethodRaidCreate, MethodRaidDelete,
	MethodAioCreate, MethodAioDelete,
	MethodNvmeSetOptions, MethodNvmeSetHotplug, MethodNvmeAttachController, MethodNvmeDetachController, MethodNvmeApplyFirmware,
	MethodRbdCreate, MethodRbdDelete,
	MethodErrorCreate, MethodErrorDelete, MethodErrorInjectError,
	MethodDelayCreate, MethodDelayDelete, MethodDelayUpdateLatency,
	MethodIscsiCreate, MethodIscsiDelete,
	MethodPmemCreate, MethodPmemDelete,
	MethodPassthruCreate, MethodPassthruDelete,
	MethodSplitCreate, MethodSplitDelete,
	MethodFtlCreate, MethodFtlDelete,
	MethodGetBdevs, MethodGetIostat, MethodEnableHistogram, MethodGetHistogram, MethodSetQdSamplingPeriod, MethodSetQosLimit,
}

// Methods returns every current method name, sorted.
func Methods() []string {
	out := make([]string, len(methods))
	copy(out, methods)
	sort.Strings(out)
	return out
}

// Canonical resolves a legacy name to its current name. Other names are
// returned unchanged.
func Canonical(method string) string {
	if canonical, ok := DeprecatedAliases[method]; ok {
		return canonical
	}
	return method
}

// AliasOf returns the legacy name of method, if it has one.
func AliasOf(method string) (string, bool) {
	for legacy, canonical := range DeprecatedAliases {
		if canonical == method {
			return legacy, true
		}
	}
	return "", false
}
