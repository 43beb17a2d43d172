package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"bdev-rpc/bdev"
)

func nameFlag(usage string) cli.Flag {
	return cli.StringFlag{Name: "name, b", Usage: usage, Required: true}
}

// deleteCmd builds the command of an operation that only takes a bdev name.
func deleteCmd(method, usage string, fn func(context.Context, bdev.Caller, string) (json.RawMessage, error)) cli.Command {
	return cli.Command{
		Name:    method,
		Aliases: aliases(method),
		Usage:   usage,
		Flags:   []cli.Flag{nameFlag("bdev name")},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return fn(ctx, c, cc.String("name"))
		}),
	}
}

func Commands() []cli.Command {
	return []cli.Command{
		SetOptionsCmd(),
		CompressCreateCmd(),
		deleteCmd(bdev.MethodCompressDelete, "Delete a compress bdev", bdev.CompressDelete),
		CompressSetPMDCmd(),
		CompressGetOrphansCmd(),
		CryptoCreateCmd(),
		deleteCmd(bdev.MethodCryptoDelete, "Delete a crypto bdev", bdev.CryptoDelete),
		OCFCreateCmd(),
		deleteCmd(bdev.MethodOCFDelete, "Delete an OCF bdev", bdev.OCFDelete),
		deleteCmd(bdev.MethodOCFGetStats, "Get statistics of an OCF bdev", bdev.OCFGetStats),
		OCFGetBdevsCmd(),
		MallocCreateCmd(),
		deleteCmd(bdev.MethodMallocDelete, "Delete a malloc bdev", bdev.MallocDelete),
		NullCreateCmd(),
		deleteCmd(bdev.MethodNullDelete, "Delete a null bdev", bdev.NullDelete),
		RaidGetBdevsCmd(),
		RaidCreateCmd(),
		deleteCmd(bdev.MethodRaidDelete, "Destroy a raid bdev", bdev.RaidDelete),
		AioCreateCmd(),
		deleteCmd(bdev.MethodAioDelete, "Delete an AIO bdev", bdev.AioDelete),
		NvmeSetOptionsCmd(),
		NvmeSetHotplugCmd(),
		NvmeAttachControllerCmd(),
		deleteCmd(bdev.MethodNvmeDetachController, "Detach an NVMe controller and delete its bdevs", bdev.NvmeDetachController),
		NvmeApplyFirmwareCmd(),
		RbdCreateCmd(),
		deleteCmd(bdev.MethodRbdDelete, "Delete a Ceph RBD bdev", bdev.RbdDelete),
		ErrorCreateCmd(),
		deleteCmd(bdev.MethodErrorDelete, "Delete an error bdev", bdev.ErrorDelete),
		ErrorInjectErrorCmd(),
		DelayCreateCmd(),
		deleteCmd(bdev.MethodDelayDelete, "Delete a delay bdev", bdev.DelayDelete),
		DelayUpdateLatencyCmd(),
		IscsiCreateCmd(),
		deleteCmd(bdev.MethodIscsiDelete, "Delete an iSCSI bdev", bdev.IscsiDelete),
		PmemCreateCmd(),
		deleteCmd(bdev.MethodPmemDelete, "Delete a pmem bdev", bdev.PmemDelete),
		PassthruCreateCmd(),
		deleteCmd(bdev.MethodPassthruDelete, "Delete a pass-through bdev", bdev.PassthruDelete),
		SplitCreateCmd(),
		SplitDeleteCmd(),
		FtlCreateCmd(),
		deleteCmd(bdev.MethodFtlDelete, "Delete an FTL bdev", bdev.FtlDelete),
		GetBdevsCmd(bdev.MethodGetBdevs, "Display current blockdev list or required blockdev", bdev.GetBdevs),
		GetBdevsCmd(bdev.MethodGetIostat, "Display current I/O statistics of all the blockdevs or required blockdev", bdev.GetIostat),
		EnableHistogramCmd(),
		deleteCmd(bdev.MethodGetHistogram, "Get histogram of a bdev", bdev.GetHistogram),
		SetQdSamplingPeriodCmd(),
		SetQosLimitCmd(),
	}
}

func SetOptionsCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodSetOptions,
		Usage: "Set options of the bdev subsystem",
		Flags: []cli.Flag{
			cli.UintFlag{Name: "bdev-io-pool-size, p", Usage: "Number of bdev_io structures in shared buffer pool"},
			cli.UintFlag{Name: "bdev-io-cache-size, c", Usage: "Maximum number of bdev_io structures cached per thread"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.SetOptions(ctx, c, bdev.SetOptionsRequest{
				BdevIOPoolSize:  optUint32(cc, "bdev-io-pool-size"),
				BdevIOCacheSize: optUint32(cc, "bdev-io-cache-size"),
			})
		}),
	}
}

func CompressCreateCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodCompressCreate,
		Aliases: aliases(bdev.MethodCompressCreate),
		Usage:   "Add a compress vbdev",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "base-bdev-name, b", Usage: "Name of the base bdev", Required: true},
			cli.StringFlag{Name: "pm-path, p", Usage: "Path to persistent memory", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.CompressCreate(ctx, c, bdev.CompressCreateRequest{
				BaseBdevName: cc.String("base-bdev-name"),
				PmPath:       cc.String("pm-path"),
			})
		}),
	}
}

func CompressSetPMDCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodCompressSetPMD,
		Usage: "Set the compress driver: 0 = auto-select, 1 = QAT, 2 = ISAL",
		Flags: []cli.Flag{
			cli.IntFlag{Name: "pmd, p", Usage: "0 = auto-select, 1 = QAT only, 2 = ISAL only", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.CompressSetPMD(ctx, c, bdev.CompressPMD(cc.Int("pmd")))
		}),
	}
}

func CompressGetOrphansCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodCompressGetOrphans,
		Usage: "Display list of orphaned compress bdevs",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "name, b", Usage: "Name of a compress bdev; all when omitted"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.CompressGetOrphans(ctx, c, bdev.CompressGetOrphansRequest{Name: optString(cc, "name")})
		}),
	}
}

func CryptoCreateCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodCryptoCreate,
		Aliases: aliases(bdev.MethodCryptoCreate),
		Usage:   "Add a crypto vbdev",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "base-bdev-name, b", Usage: "Name of the base bdev", Required: true},
			cli.StringFlag{Name: "name, c", Usage: "Name of the crypto vbdev", Required: true},
			cli.StringFlag{Name: "crypto-pmd, d", Usage: "Name of the crypto device driver", Required: true},
			cli.StringFlag{Name: "key, k", Usage: "Key", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.CryptoCreate(ctx, c, bdev.CryptoCreateRequest{
				BaseBdevName: cc.String("base-bdev-name"),
				Name:         cc.String("name"),
				CryptoPMD:    cc.String("crypto-pmd"),
				Key:          cc.String("key"),
			})
		}),
	}
}

func OCFCreateCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodOCFCreate,
		Aliases: aliases(bdev.MethodOCFCreate),
		Usage:   "Add an OCF block device",
		Flags: []cli.Flag{
			nameFlag("Name of the OCF bdev"),
			cli.StringFlag{Name: "mode", Usage: "OCF cache mode: wb, wt or pt", Required: true},
			cli.StringFlag{Name: "cache-bdev-name", Usage: "Name of the underlying cache bdev", Required: true},
			cli.StringFlag{Name: "core-bdev-name", Usage: "Name of the underlying core bdev", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.OCFCreate(ctx, c, bdev.OCFCreateRequest{
				Name:          cc.String("name"),
				Mode:          bdev.OCFCacheMode(cc.String("mode")),
				CacheBdevName: cc.String("cache-bdev-name"),
				CoreBdevName:  cc.String("core-bdev-name"),
			})
		}),
	}
}

func OCFGetBdevsCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodOCFGetBdevs,
		Aliases: aliases(bdev.MethodOCFGetBdevs),
		Usage:   "Get list of OCF devices including unregistered ones",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "name, b", Usage: "Name of an OCF vbdev or of its cache or core device"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.OCFGetBdevs(ctx, c, bdev.OCFGetBdevsRequest{Name: optString(cc, "name")})
		}),
	}
}

func MallocCreateCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodMallocCreate,
		Aliases: aliases(bdev.MethodMallocCreate),
		Usage:   "Create a bdev with malloc backend",
		Flags: []cli.Flag{
			cli.Uint64Flag{Name: "total-size", Usage: "Size of the malloc bdev in MiB"},
			cli.Uint64Flag{Name: "num-blocks", Usage: "Size of the malloc bdev in blocks, instead of --total-size"},
			cli.UintFlag{Name: "block-size", Usage: "Data block size in bytes", Required: true},
			cli.StringFlag{Name: "name, b", Usage: "Name of the bdev"},
			cli.StringFlag{Name: "uuid, u", Usage: "UUID of the bdev"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			blockSize := uint32(cc.Uint("block-size"))
			numBlocks, err := numBlocks(cc, blockSize)
			if err != nil {
				return nil, err
			}
			return bdev.MallocCreate(ctx, c, bdev.MallocCreateRequest{
				NumBlocks: numBlocks,
				BlockSize: blockSize,
				Name:      optString(cc, "name"),
				UUID:      optString(cc, "uuid"),
			})
		}),
	}
}

// numBlocks reads --num-blocks, or derives it from --total-size in MiB.
func numBlocks(cc *cli.Context, blockSize uint32) (uint64, error) {
	if cc.IsSet("num-blocks") {
		return cc.Uint64("num-blocks"), nil
	}
	if !cc.IsSet("total-size") {
		return 0, errors.New("either --total-size or --num-blocks is required")
	}
	if blockSize == 0 {
		return 0, errors.New("--block-size must not be 0")
	}
	return cc.Uint64("total-size") * 1024 * 1024 / uint64(blockSize), nil
}

func NullCreateCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodNullCreate,
		Aliases: aliases(bdev.MethodNullCreate),
		Usage:   "Add a bdev with null backend",
		Flags: []cli.Flag{
			nameFlag("Name of the bdev"),
			cli.Uint64Flag{Name: "total-size", Usage: "Size of the null bdev in MiB"},
			cli.Uint64Flag{Name: "num-blocks", Usage: "Size of the null bdev in blocks, instead of --total-size"},
			cli.UintFlag{Name: "block-size", Usage: "Block size in bytes", Required: true},
			cli.StringFlag{Name: "uuid, u", Usage: "UUID of the bdev"},
			cli.UintFlag{Name: "md-size, m", Usage: "Metadata size in bytes"},
			cli.IntFlag{Name: "dif-type, t", Usage: "Protection information type: 0 to 3"},
			cli.BoolFlag{Name: "dif-is-head-of-md, d", Usage: "Protection information is in the first 8 bytes of metadata"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			blockSize := uint32(cc.Uint("block-size"))
			numBlocks, err := numBlocks(cc, blockSize)
			if err != nil {
				return nil, err
			}
			req := bdev.NullCreateRequest{
				Name:          cc.String("name"),
				NumBlocks:     numBlocks,
				BlockSize:     blockSize,
				UUID:          optString(cc, "uuid"),
				MdSize:        optUint32(cc, "md-size"),
				DifIsHeadOfMd: optBool(cc, "dif-is-head-of-md"),
			}
			if cc.IsSet("dif-type") {
				difType := bdev.DifType(cc.Int("dif-type"))
				req.DifType = &difType
			}
			return bdev.NullCreate(ctx, c, req)
		}),
	}
}

func RaidGetBdevsCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodRaidGetBdevs,
		Usage: "Display raid bdev names: all, online, configuring or offline",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "category", Usage: "all, online, configuring or offline", Value: string(bdev.RaidCategoryAll)},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.RaidGetBdevs(ctx, c, bdev.RaidCategory(cc.String("category")))
		}),
	}
}

func RaidCreateCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodRaidCreate,
		Usage: "Create a raid bdev from base bdevs",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "name, n", Usage: "Name of the raid bdev", Required: true},
			cli.StringFlag{Name: "raid-level, r", Usage: "Raid level, only 0 is supported", Required: true},
			cli.StringSliceFlag{Name: "base-bdevs, b", Usage: "Base bdev name, repeat for each", Required: true},
			cli.UintFlag{Name: "strip-size, s", Usage: "Strip size in KiB (deprecated, use --strip-size-kb)"},
			cli.UintFlag{Name: "strip-size-kb, z", Usage: "Strip size in KiB"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.RaidCreate(ctx, c, bdev.RaidCreateRequest{
				Name:        cc.String("name"),
				RaidLevel:   cc.String("raid-level"),
				BaseBdevs:   cc.StringSlice("base-bdevs"),
				StripSize:   optUint32(cc, "strip-size"),
				StripSizeKB: optUint32(cc, "strip-size-kb"),
			})
		}),
	}
}

func AioCreateCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodAioCreate,
		Aliases: aliases(bdev.MethodAioCreate),
		Usage:   "Add a bdev with aio backend",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "filename, f", Usage: "Path to device or file, e.g. /dev/sda", Required: true},
			nameFlag("Name of the bdev"),
			cli.UintFlag{Name: "block-size", Usage: "Block size; detected when omitted"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.AioCreate(ctx, c, bdev.AioCreateRequest{
				Name:      cc.String("name"),
				Filename:  cc.String("filename"),
				BlockSize: optUint32(cc, "block-size"),
			})
		}),
	}
}

func NvmeSetOptionsCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodNvmeSetOptions,
		Aliases: aliases(bdev.MethodNvmeSetOptions),
		Usage:   "Set options of the NVMe bdev module",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "action-on-timeout, a", Usage: "none, reset or abort"},
			cli.Uint64Flag{Name: "timeout-us, t", Usage: "Timeout of each command in microseconds; 0 disables tracking"},
			cli.UintFlag{Name: "retry-count, n", Usage: "Attempts per I/O when an I/O fails"},
			cli.Uint64Flag{Name: "nvme-adminq-poll-period-us, p", Usage: "Admin queue polling period in microseconds"},
			cli.Uint64Flag{Name: "nvme-ioq-poll-period-us, i", Usage: "I/O queue polling period in microseconds"},
			cli.UintFlag{Name: "io-queue-requests, s", Usage: "Requests allocated per NVMe I/O queue"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			req := bdev.NvmeSetOptionsRequest{
				TimeoutUs:              optUint64(cc, "timeout-us"),
				RetryCount:             optUint32(cc, "retry-count"),
				NvmeAdminqPollPeriodUs: optUint64(cc, "nvme-adminq-poll-period-us"),
				NvmeIoqPollPeriodUs:    optUint64(cc, "nvme-ioq-poll-period-us"),
				IoQueueRequests:        optUint32(cc, "io-queue-requests"),
			}
			if cc.IsSet("action-on-timeout") {
				action := bdev.NvmeTimeoutAction(cc.String("action-on-timeout"))
				req.ActionOnTimeout = &action
			}
			return bdev.NvmeSetOptions(ctx, c, req)
		}),
	}
}

func NvmeSetHotplugCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodNvmeSetHotplug,
		Aliases: aliases(bdev.MethodNvmeSetHotplug),
		Usage:   "Set hotplug options of the NVMe bdev module",
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "enable, e", Usage: "Enable hotplug"},
			cli.BoolFlag{Name: "disable, d", Usage: "Disable hotplug"},
			cli.Uint64Flag{Name: "period-us, r", Usage: "Hotplug polling period in microseconds; 0 resets the default"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			if cc.Bool("enable") == cc.Bool("disable") {
				return nil, errors.New("exactly one of --enable and --disable is required")
			}
			return bdev.NvmeSetHotplug(ctx, c, bdev.NvmeSetHotplugRequest{
				Enable:   cc.Bool("enable"),
				PeriodUs: optUint64(cc, "period-us"),
			})
		}),
	}
}

func NvmeAttachControllerCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodNvmeAttachController,
		Usage: "Add bdevs for the namespaces of an NVMe controller",
		Flags: []cli.Flag{
			nameFlag("Name prefix of the bdevs"),
			cli.StringFlag{Name: "trtype, t", Usage: "Transport type, e.g. PCIe, RDMA", Required: true},
			cli.StringFlag{Name: "traddr, a", Usage: "PCI BDF or IP address", Required: true},
			cli.StringFlag{Name: "adrfam, f", Usage: "Address family, e.g. IPv4, IPv6, IB, FC"},
			cli.StringFlag{Name: "trsvcid, s", Usage: "Transport service ID, e.g. the port of an IP transport"},
			cli.StringFlag{Name: "subnqn, n", Usage: "Subsystem NQN"},
			cli.StringFlag{Name: "hostnqn, q", Usage: "Host NQN"},
			cli.StringFlag{Name: "hostaddr, i", Usage: "Host transport address"},
			cli.StringFlag{Name: "hostsvcid, c", Usage: "Host transport service ID"},
			cli.BoolFlag{Name: "prchk-reftag, r", Usage: "Enable checking of PI reference tag"},
			cli.BoolFlag{Name: "prchk-guard, g", Usage: "Enable checking of PI guard"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			req := bdev.NvmeAttachControllerRequest{
				Name:        cc.String("name"),
				TrType:      bdev.NvmeTransportType(cc.String("trtype")),
				TrAddr:      cc.String("traddr"),
				TrSvcID:     optString(cc, "trsvcid"),
				SubNQN:      optString(cc, "subnqn"),
				HostNQN:     optString(cc, "hostnqn"),
				HostAddr:    optString(cc, "hostaddr"),
				HostSvcID:   optString(cc, "hostsvcid"),
				PrchkReftag: optBool(cc, "prchk-reftag"),
				PrchkGuard:  optBool(cc, "prchk-guard"),
			}
			if cc.IsSet("adrfam") {
				adrfam := bdev.NvmeAddressFamily(cc.String("adrfam"))
				req.AdrFam = &adrfam
			}
			return bdev.NvmeAttachController(ctx, c, req)
		}),
	}
}

func NvmeApplyFirmwareCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodNvmeApplyFirmware,
		Aliases: aliases(bdev.MethodNvmeApplyFirmware),
		Usage:   "Download and commit firmware to an NVMe device",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "filename, f", Usage: "Firmware image", Required: true},
			cli.StringFlag{Name: "bdev-name, b", Usage: "Name of the NVMe bdev", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.NvmeApplyFirmware(ctx, c, cc.String("bdev-name"), cc.String("filename"))
		}),
	}
}

func RbdCreateCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodRbdCreate,
		Usage: "Add a bdev with Ceph RBD backend",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "name, b", Usage: "Name of the bdev"},
			cli.StringFlag{Name: "user", Usage: "Ceph user name, e.g. admin"},
			cli.StringSliceFlag{Name: "ceph-config", Usage: "Ceph config key=value, repeat for each"},
			cli.StringFlag{Name: "pool-name", Usage: "RBD pool name", Required: true},
			cli.StringFlag{Name: "rbd-name", Usage: "RBD image name", Required: true},
			cli.UintFlag{Name: "block-size", Usage: "Block size in bytes", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			req := bdev.RbdCreateRequest{
				PoolName:  cc.String("pool-name"),
				RbdName:   cc.String("rbd-name"),
				BlockSize: uint32(cc.Uint("block-size")),
				Name:      optString(cc, "name"),
				User:      optString(cc, "user"),
			}
			if cc.IsSet("ceph-config") {
				config, err := parseKeyValues(cc.StringSlice("ceph-config"))
				if err != nil {
					return nil, err
				}
				req.Config = config
			}
			return bdev.RbdCreate(ctx, c, req)
		}),
	}
}

func ErrorCreateCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodErrorCreate,
		Aliases: aliases(bdev.MethodErrorCreate),
		Usage:   "Add a bdev with error injection backend",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "base-name", Usage: "Name of the base bdev", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.ErrorCreate(ctx, c, cc.String("base-name"))
		}),
	}
}

func ErrorInjectErrorCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodErrorInjectError,
		Aliases: aliases(bdev.MethodErrorInjectError),
		Usage:   "Inject an error through an error bdev",
		Flags: []cli.Flag{
			nameFlag("Name of the error bdev"),
			cli.StringFlag{Name: "io-type", Usage: "clear, read, write, unmap, flush or all", Required: true},
			cli.StringFlag{Name: "error-type", Usage: "failure or pending", Required: true},
			cli.UintFlag{Name: "num, n", Usage: "Number of commands to fail", Value: bdev.DefaultErrorInjectNum},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.ErrorInjectError(ctx, c, bdev.ErrorInjectErrorRequest{
				Name:      cc.String("name"),
				IOType:    bdev.ErrorIOType(cc.String("io-type")),
				ErrorType: bdev.ErrorType(cc.String("error-type")),
				Num:       optUint32(cc, "num"),
			})
		}),
	}
}

func DelayCreateCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodDelayCreate,
		Usage: "Add a delay bdev on an existing bdev",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "base-bdev-name, b", Usage: "Name of the existing bdev", Required: true},
			cli.StringFlag{Name: "name, d", Usage: "Name of the delay bdev", Required: true},
			cli.Uint64Flag{Name: "avg-read-latency, r", Usage: "Average read latency in microseconds", Required: true},
			cli.Uint64Flag{Name: "nine-nine-read-latency, t", Usage: "p99 read latency in microseconds", Required: true},
			cli.Uint64Flag{Name: "avg-write-latency, w", Usage: "Average write latency in microseconds", Required: true},
			cli.Uint64Flag{Name: "nine-nine-write-latency, n", Usage: "p99 write latency in microseconds", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.DelayCreate(ctx, c, bdev.DelayCreateRequest{
				BaseBdevName:    cc.String("base-bdev-name"),
				Name:            cc.String("name"),
				AvgReadLatency:  cc.Uint64("avg-read-latency"),
				P99ReadLatency:  cc.Uint64("nine-nine-read-latency"),
				AvgWriteLatency: cc.Uint64("avg-write-latency"),
				P99WriteLatency: cc.Uint64("nine-nine-write-latency"),
			})
		}),
	}
}

func DelayUpdateLatencyCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodDelayUpdateLatency,
		Usage: "Update one latency value of a delay bdev",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "delay-bdev-name", Usage: "Name of the delay bdev", Required: true},
			cli.StringFlag{Name: "latency-type", Usage: "avg_read, avg_write, p99_read or p99_write", Required: true},
			cli.Uint64Flag{Name: "latency-us", Usage: "New latency in microseconds", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.DelayUpdateLatency(ctx, c, bdev.DelayUpdateLatencyRequest{
				DelayBdevName: cc.String("delay-bdev-name"),
				LatencyType:   bdev.DelayLatencyType(cc.String("latency-type")),
				LatencyUs:     cc.Uint64("latency-us"),
			})
		}),
	}
}

func IscsiCreateCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodIscsiCreate,
		Aliases: aliases(bdev.MethodIscsiCreate),
		Usage:   "Add a bdev with iSCSI initiator backend",
		Flags: []cli.Flag{
			nameFlag("Name of the bdev"),
			cli.StringFlag{Name: "initiator-iqn, i", Usage: "Initiator IQN", Required: true},
			cli.StringFlag{Name: "url, u", Usage: "LUN URL, e.g. iscsi://127.0.0.1:3260/iqn.2016-06.io.spdk:disk1/0", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.IscsiCreate(ctx, c, bdev.IscsiCreateRequest{
				Name:         cc.String("name"),
				URL:          cc.String("url"),
				InitiatorIQN: cc.String("initiator-iqn"),
			})
		}),
	}
}

func PmemCreateCmd() cli.Command {
	return cli.Command{
		Name:    bdev.MethodPmemCreate,
		Aliases: aliases(bdev.MethodPmemCreate),
		Usage:   "Add a bdev with pmem backend",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "pmem-file", Usage: "Path to the pmemblk pool file", Required: true},
			nameFlag("Name of the bdev"),
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.PmemCreate(ctx, c, cc.String("pmem-file"), cc.String("name"))
		}),
	}
}

func PassthruCreateCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodPassthruCreate,
		Usage: "Add a pass-through bdev on an existing bdev",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "base-bdev-name, b", Usage: "Name of the existing bdev", Required: true},
			cli.StringFlag{Name: "name, p", Usage: "Name of the pass-through bdev", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.PassthruCreate(ctx, c, cc.String("base-bdev-name"), cc.String("name"))
		}),
	}
}

func SplitCreateCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodSplitCreate,
		Usage: "Split a bdev into equally sized parts",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "base-bdev", Usage: "Name of the bdev to split", Required: true},
			cli.UintFlag{Name: "split-count", Usage: "Number of parts", Required: true},
			cli.Uint64Flag{Name: "split-size-mb, s", Usage: "Size of each part in MiB"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.SplitCreate(ctx, c, bdev.SplitCreateRequest{
				BaseBdev:    cc.String("base-bdev"),
				SplitCount:  uint32(cc.Uint("split-count")),
				SplitSizeMB: optUint64(cc, "split-size-mb"),
			})
		}),
	}
}

func SplitDeleteCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodSplitDelete,
		Usage: "Delete the parts of a split bdev",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "base-bdev", Usage: "Name of the split bdev", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.SplitDelete(ctx, c, cc.String("base-bdev"))
		}),
	}
}

func FtlCreateCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodFtlCreate,
		Usage: "Add an FTL bdev on an Open Channel SSD",
		Flags: []cli.Flag{
			nameFlag("Name of the bdev"),
			cli.StringFlag{Name: "trtype, t", Usage: "Transport type", Value: string(bdev.NvmeTransportTypePCIe)},
			cli.StringFlag{Name: "traddr, l", Usage: "NVMe target address, e.g. 00:00.0", Required: true},
			cli.StringFlag{Name: "punits, r", Usage: "Parallel unit range, e.g. 0-3", Required: true},
			cli.StringFlag{Name: "uuid, u", Usage: "UUID of a device to restore"},
			cli.StringFlag{Name: "cache, c", Usage: "Name of the write buffer cache bdev"},
			cli.BoolFlag{Name: "allow-open-bands, o", Usage: "Restore after a dirty shutdown"},
			cli.UintFlag{Name: "overprovisioning", Usage: "Percentage of bands reserved for internal use"},
			cli.StringFlag{Name: "l2p-path", Usage: "Path to the persistent memory file for L2P"},
			cli.BoolFlag{Name: "use-append", Usage: "Submit writes with the zone append command"},
			cli.StringSliceFlag{Name: "opt", Usage: "Extra parameter key=value, repeat for each"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			req := bdev.FtlCreateRequest{
				Name:             cc.String("name"),
				TrType:           bdev.NvmeTransportType(cc.String("trtype")),
				TrAddr:           cc.String("traddr"),
				Punits:           cc.String("punits"),
				UUID:             optString(cc, "uuid"),
				Cache:            optString(cc, "cache"),
				AllowOpenBands:   optBool(cc, "allow-open-bands"),
				Overprovisioning: optUint32(cc, "overprovisioning"),
				L2PPath:          optString(cc, "l2p-path"),
				UseAppend:        optBool(cc, "use-append"),
			}
			if cc.IsSet("opt") {
				opts, err := parseKeyValues(cc.StringSlice("opt"))
				if err != nil {
					return nil, err
				}
				req.Extra = make(map[string]bdev.ExtraValue, len(opts))
				for k, v := range opts {
					req.Extra[k] = parseExtraValue(v)
				}
			}
			return bdev.FtlCreate(ctx, c, req)
		}),
	}
}

func GetBdevsCmd(method, usage string, fn func(context.Context, bdev.Caller, bdev.GetBdevsRequest) (json.RawMessage, error)) cli.Command {
	return cli.Command{
		Name:  method,
		Usage: usage,
		Flags: []cli.Flag{
			cli.StringFlag{Name: "name, b", Usage: "Name of the blockdev; all when omitted"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return fn(ctx, c, bdev.GetBdevsRequest{Name: optString(cc, "name")})
		}),
	}
}

func EnableHistogramCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodEnableHistogram,
		Usage: "Enable or disable histogram for a bdev",
		Flags: []cli.Flag{
			nameFlag("Name of the bdev"),
			cli.BoolFlag{Name: "enable", Usage: "Enable histograms"},
			cli.BoolFlag{Name: "disable", Usage: "Disable histograms"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			if cc.Bool("enable") == cc.Bool("disable") {
				return nil, errors.New("exactly one of --enable and --disable is required")
			}
			return bdev.EnableHistogram(ctx, c, cc.String("name"), cc.Bool("enable"))
		}),
	}
}

func SetQdSamplingPeriodCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodSetQdSamplingPeriod,
		Usage: "Enable or disable tracking of a bdev's queue depth",
		Flags: []cli.Flag{
			nameFlag("Name of the bdev"),
			cli.Uint64Flag{Name: "period", Usage: "Sampling period in microseconds; 0 disables tracking", Required: true},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.SetQdSamplingPeriod(ctx, c, cc.String("name"), cc.Uint64("period"))
		}),
	}
}

func SetQosLimitCmd() cli.Command {
	return cli.Command{
		Name:  bdev.MethodSetQosLimit,
		Usage: "Set QoS rate limits on a bdev; 0 removes a limit",
		Flags: []cli.Flag{
			nameFlag("Name of the bdev"),
			cli.Uint64Flag{Name: "rw-ios-per-sec", Usage: "R/W IOs per second limit (>=10000)"},
			cli.Uint64Flag{Name: "rw-mbytes-per-sec", Usage: "R/W megabytes per second limit (>=10)"},
			cli.Uint64Flag{Name: "r-mbytes-per-sec", Usage: "Read megabytes per second limit (>=10)"},
			cli.Uint64Flag{Name: "w-mbytes-per-sec", Usage: "Write megabytes per second limit (>=10)"},
		},
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			return bdev.SetQosLimit(ctx, c, bdev.SetQosLimitRequest{
				Name:           cc.String("name"),
				RwIosPerSec:    optUint64(cc, "rw-ios-per-sec"),
				RwMbytesPerSec: optUint64(cc, "rw-mbytes-per-sec"),
				RMbytesPerSec:  optUint64(cc, "r-mbytes-per-sec"),
				WMbytesPerSec:  optUint64(cc, "w-mbytes-per-sec"),
			})
		}),
	}
}

// CallCmd sends any method with raw JSON params.
func CallCmd() cli.Command {
	return cli.Command{
		Name:      "call",
		Usage:     "Call a method with raw JSON params",
		ArgsUsage: "METHOD [PARAMS_JSON]",
		Action: run(func(ctx context.Context, c bdev.Caller, cc *cli.Context) (json.RawMessage, error) {
			if cc.NArg() < 1 || cc.NArg() > 2 {
				return nil, errors.New("usage: call METHOD [PARAMS_JSON]")
			}
			var params any
			if cc.NArg() == 2 {
				raw := json.RawMessage(cc.Args().Get(1))
				if !json.Valid(raw) {
					return nil, errors.Errorf("params are not valid JSON: %v", cc.Args().Get(1))
				}
				params = raw
			}
			return c.Call(ctx, cc.Args().First(), params)
		}),
	}
}

func MethodsCmd() cli.Command {
	return cli.Command{
		Name:  "methods",
		Usage: "List the known methods and their deprecated names",
		Action: func(c *cli.Context) error {
			for _, m := range bdev.Methods() {
				if alias, ok := bdev.AliasOf(m); ok {
					fmt.Fprintf(out, "%s (deprecated: %s)\n", m, alias)
					continue
				}
				fmt.Fprintln(out, m)
			}
			return nil
		},
	}
}
