package bdev

// Values the target accepts for enumerated parameters. They are not checked
// here; the target rejects what it does not know.

type OCFCacheMode string

const (
	OCFCacheModeWriteBack    = OCFCacheMode("wb")
	OCFCacheModeWriteThrough = OCFCacheMode("wt")
	OCFCacheModePassThrough  = OCFCacheMode("pt")
)

type RaidCategory string

const (
	RaidCategoryAll         = RaidCategory("all")
	RaidCategoryOnline      = RaidCategory("online")
	RaidCategoryConfiguring = RaidCategory("configuring")
	RaidCategoryOffline     = RaidCategory("offline")
)

type CompressPMD int

const (
	CompressPMDAuto = CompressPMD(0)
	CompressPMDQAT  = CompressPMD(1)
	CompressPMDISAL = CompressPMD(2)
)

type NvmeTimeoutAction string

const (
	NvmeTimeoutActionNone  = NvmeTimeoutAction("none")
	NvmeTimeoutActionReset = NvmeTimeoutAction("reset")
	NvmeTimeoutActionAbort = NvmeTimeoutAction("abort")
)

type NvmeTransportType string

const (
	NvmeTransportTypePCIe = NvmeTransportType("PCIe")
	NvmeTransportTypeRDMA = NvmeTransportType("RDMA")
	NvmeTransportTypeTCP  = NvmeTransportType("TCP")
	NvmeTransportTypeFC   = NvmeTransportType("FC")
)

type NvmeAddressFamily string

const (
	NvmeAddressFamilyIPv4 = NvmeAddressFamily("IPv4")
	NvmeAddressFamilyIPv6 = NvmeAddressFamily("IPv6")
	NvmeAddressFamilyIB   = NvmeAddressFamily("IB")
	NvmeAddressFamilyFC   = NvmeAddressFamily("FC")
)

// DifType is the T10 protection information type of a null bdev.
type DifType int

const (
	DifTypeDisable = DifType(0)
	DifType1       = DifType(1)
	DifType2       = DifType(2)
	DifType3       = DifType(3)
)

type ErrorIOType string

const (
	ErrorIOTypeClear = ErrorIOType("clear")
	ErrorIOTypeRead  = ErrorIOType("read")
	ErrorIOTypeWrite = ErrorIOType("write")
	ErrorIOTypeUnmap = ErrorIOType("unmap")
	ErrorIOTypeFlush = ErrorIOType("flush")
	ErrorIOTypeAll   = ErrorIOType("all")
)

type ErrorType string

const (
	ErrorTypeFailure = ErrorType("failure")
	ErrorTypePending = ErrorType("pending")
)

type DelayLatencyType string

const (
	DelayLatencyTypeAvgRead  = DelayLatencyType("avg_read")
	DelayLatencyTypeAvgWrite = DelayLatencyType("avg_write")
	DelayLatencyTypeP99Read  = DelayLatencyType("p99_read")
	DelayLatencyTypeP99Write = DelayLatencyType("p99_write")
)
