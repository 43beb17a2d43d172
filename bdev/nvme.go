package bdev

import (
	"context"
	"encoding/json"
)

// NvmeSetOptionsRequest holds startup options of the NVMe bdev module.
type NvmeSetOptionsRequest struct {
	ActionOnTimeout *NvmeTimeoutAction `json:"action_on_timeout,omitempty"`
	// Per command timeout; 0 disables timeout tracking.
	TimeoutUs  *uint64 `json:"timeout_us,omitempty"`
	RetryCount *uint32 `json:"retry_count,omitempty"`
	// Admin queue polling period for asynchronous events.
	NvmeAdminqPollPeriodUs *uint64 `json:"nvme_adminq_poll_period_us,omitempty"`
	NvmeIoqPollPeriodUs    *uint64 `json:"nvme_ioq_poll_period_us,omitempty"`
	// Requests allocated per I/O queue; the target default is 512.
	IoQueueRequests *uint32 `json:"io_queue_requests,omitempty"`
}

func NvmeSetOptions(ctx context.Context, c Caller, req NvmeSetOptionsRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodNvmeSetOptions, req)
}

type NvmeSetHotplugRequest struct {
	Enable bool `json:"enable"`
	// How often hotplug events are processed; 0 resets the default.
	PeriodUs *uint64 `json:"period_us,omitempty"`
}

func NvmeSetHotplug(ctx context.Context, c Caller, req NvmeSetHotplugRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodNvmeSetHotplug, req)
}

type NvmeAttachControllerRequest struct {
	// Name prefix; the target appends "n" and the namespace ID.
	Name   string            `json:"name"`
	TrType NvmeTransportType `json:"trtype"`
	// PCI BDF or IP address.
	TrAddr  string             `json:"traddr"`
	AdrFam  *NvmeAddressFamily `json:"adrfam,omitempty"`
	TrSvcID *string            `json:"trsvcid,omitempty"`
	SubNQN  *string            `json:"subnqn,omitempty"`
	HostNQN *string            `json:"hostnqn,omitempty"`
	// Host side address and service ID, IP transports only.
	HostAddr  *string `json:"hostaddr,omitempty"`
	HostSvcID *string `json:"hostsvcid,omitempty"`
	// Protection information checks.
	PrchkReftag *bool `json:"prchk_reftag,omitempty"`
	PrchkGuard  *bool `json:"prchk_guard,omitempty"`
}

// NvmeAttachController connects to an NVMe controller and returns the names
// of the bdevs created for its namespaces.
func NvmeAttachController(ctx context.Context, c Caller, req NvmeAttachControllerRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodNvmeAttachController, req)
}

func NvmeDetachController(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodNvmeDetachController, name)
}

type nvmeApplyFirmwareRequest struct {
	Filename string `json:"filename"`
	BdevName string `json:"bdev_name"`
}

// NvmeApplyFirmware downloads filename to the NVMe device behind bdevName and
// commits it.
func NvmeApplyFirmware(ctx context.Context, c Caller, bdevName, filename string) (json.RawMessage, error) {
	return c.Call(ctx, MethodNvmeApplyFirmware, nvmeApplyFirmwareRequest{Filename: filename, BdevName: bdevName})
}
