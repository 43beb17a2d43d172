package bdev

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/pointer"
)

// recorder captures what would be sent instead of sending it.
type recorder struct {
	method string
	params string
	calls  int

	result json.RawMessage
	err    error
}

func (r *recorder) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	r.calls++
	r.method = method
	r.params = ""
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		r.params = string(raw)
	}
	return r.result, r.err
}

func TestMallocCreate(t *testing.T) {
	ctx := context.Background()
	r := &recorder{result: json.RawMessage(`"Malloc0"`)}

	res, err := MallocCreate(ctx, r, MallocCreateRequest{NumBlocks: 100, BlockSize: 512})
	require.NoError(t, err)
	assert.Equal(t, MethodMallocCreate, r.method)
	assert.JSONEq(t, `{"num_blocks":100,"block_size":512}`, r.params)
	assert.Equal(t, `"Malloc0"`, string(res))

	_, err = MallocCreate(ctx, r, MallocCreateRequest{NumBlocks: 100, BlockSize: 512, Name: pointer.String("Malloc0")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"num_blocks":100,"block_size":512,"name":"Malloc0"}`, r.params)

	_, err = MallocCreate(ctx, r, MallocCreateRequest{
		NumBlocks: 100,
		BlockSize: 512,
		UUID:      pointer.String("5f4a2e8e-5a41-4bd6-8c7b-0bda4a3c0c11"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"num_blocks":100,"block_size":512,"uuid":"5f4a2e8e-5a41-4bd6-8c7b-0bda4a3c0c11"}`, r.params)
}

func TestInvalidUUIDIsNotSent(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}

	_, err := MallocCreate(ctx, r, MallocCreateRequest{NumBlocks: 1, BlockSize: 512, UUID: pointer.String("not-a-uuid")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = NullCreate(ctx, r, NullCreateRequest{Name: "Null0", NumBlocks: 1, BlockSize: 512, UUID: pointer.String("")})
	require.Error(t, err)

	_, err = FtlCreate(ctx, r, FtlCreateRequest{Name: "ftl0", UUID: pointer.String("xyz")})
	require.Error(t, err)

	assert.Equal(t, 0, r.calls)
}

func TestExplicitZeroIsSent(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}

	_, err := SetQosLimit(ctx, r, SetQosLimitRequest{Name: "Nvme0n1"})
	require.NoError(t, err)
	assert.Equal(t, MethodSetQosLimit, r.method)
	assert.JSONEq(t, `{"name":"Nvme0n1"}`, r.params)

	_, err = SetQosLimit(ctx, r, SetQosLimitRequest{Name: "Nvme0n1", RwIosPerSec: pointer.Uint64(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Nvme0n1","rw_ios_per_sec":0}`, r.params)

	_, err = NullCreate(ctx, r, NullCreateRequest{
		Name:          "Null0",
		NumBlocks:     8,
		BlockSize:     520,
		MdSize:        pointer.Uint32(8),
		DifIsHeadOfMd: pointer.Bool(false),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Null0","num_blocks":8,"block_size":520,"md_size":8,"dif_is_head_of_md":false}`, r.params)

	_, err = NvmeSetHotplug(ctx, r, NvmeSetHotplugRequest{Enable: false, PeriodUs: pointer.Uint64(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"enable":false,"period_us":0}`, r.params)
}

func TestOptionalKeysOmitted(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}

	testCases := []struct {
		name   string
		call   func() (json.RawMessage, error)
		method string
		params string
	}{
		{
			"set options",
			func() (json.RawMessage, error) { return SetOptions(ctx, r, SetOptionsRequest{}) },
			MethodSetOptions, `{}`,
		},
		{
			"compress orphans",
			func() (json.RawMessage, error) { return CompressGetOrphans(ctx, r, CompressGetOrphansRequest{}) },
			MethodCompressGetOrphans, `{}`,
		},
		{
			"null",
			func() (json.RawMessage, error) {
				return NullCreate(ctx, r, NullCreateRequest{Name: "Null0", NumBlocks: 8, BlockSize: 512})
			},
			MethodNullCreate, `{"name":"Null0","num_blocks":8,"block_size":512}`,
		},
		{
			"aio",
			func() (json.RawMessage, error) {
				return AioCreate(ctx, r, AioCreateRequest{Name: "Aio0", Filename: "/dev/sdb"})
			},
			MethodAioCreate, `{"name":"Aio0","filename":"/dev/sdb"}`,
		},
		{
			"nvme options",
			func() (json.RawMessage, error) { return NvmeSetOptions(ctx, r, NvmeSetOptionsRequest{}) },
			MethodNvmeSetOptions, `{}`,
		},
		{
			"nvme attach",
			func() (json.RawMessage, error) {
				return NvmeAttachController(ctx, r, NvmeAttachControllerRequest{
					Name: "Nvme0", TrType: NvmeTransportTypePCIe, TrAddr: "0000:04:00.0",
				})
			},
			MethodNvmeAttachController, `{"name":"Nvme0","trtype":"PCIe","traddr":"0000:04:00.0"}`,
		},
		{
			"split",
			func() (json.RawMessage, error) {
				return SplitCreate(ctx, r, SplitCreateRequest{BaseBdev: "Nvme0n1", SplitCount: 4})
			},
			MethodSplitCreate, `{"base_bdev":"Nvme0n1","split_count":4}`,
		},
		{
			"get bdevs",
			func() (json.RawMessage, error) { return GetBdevs(ctx, r, GetBdevsRequest{}) },
			MethodGetBdevs, `{}`,
		},
		{
			"iostat",
			func() (json.RawMessage, error) { return GetIostat(ctx, r, GetBdevsRequest{Name: pointer.String("Malloc0")}) },
			MethodGetIostat, `{"name":"Malloc0"}`,
		},
		{
			"rbd",
			func() (json.RawMessage, error) {
				return RbdCreate(ctx, r, RbdCreateRequest{PoolName: "rbd", RbdName: "img", BlockSize: 4096})
			},
			MethodRbdCreate, `{"pool_name":"rbd","rbd_name":"img","block_size":4096}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.call()
			require.NoError(t, err)
			assert.Equal(t, tc.method, r.method)
			assert.JSONEq(t, tc.params, r.params)
		})
	}
}

func TestRequiredParams(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}

	testCases := []struct {
		name   string
		call   func() (json.RawMessage, error)
		method string
		params string
	}{
		{
			"compress create",
			func() (json.RawMessage, error) {
				return CompressCreate(ctx, r, CompressCreateRequest{BaseBdevName: "Nvme0n1", PmPath: "/mnt/pmem"})
			},
			MethodCompressCreate, `{"base_bdev_name":"Nvme0n1","pm_path":"/mnt/pmem"}`,
		},
		{
			"compress pmd",
			func() (json.RawMessage, error) { return CompressSetPMD(ctx, r, CompressPMDAuto) },
			MethodCompressSetPMD, `{"pmd":0}`,
		},
		{
			"crypto create",
			func() (json.RawMessage, error) {
				return CryptoCreate(ctx, r, CryptoCreateRequest{BaseBdevName: "Nvme0n1", Name: "Crypto0", CryptoPMD: "crypto_aesni_mb", Key: "0123456789123456"})
			},
			MethodCryptoCreate, `{"base_bdev_name":"Nvme0n1","name":"Crypto0","crypto_pmd":"crypto_aesni_mb","key":"0123456789123456"}`,
		},
		{
			"ocf create",
			func() (json.RawMessage, error) {
				return OCFCreate(ctx, r, OCFCreateRequest{Name: "Cache0", Mode: OCFCacheModeWriteThrough, CacheBdevName: "Malloc0", CoreBdevName: "Nvme0n1"})
			},
			MethodOCFCreate, `{"name":"Cache0","mode":"wt","cache_bdev_name":"Malloc0","core_bdev_name":"Nvme0n1"}`,
		},
		{
			"ocf stats",
			func() (json.RawMessage, error) { return OCFGetStats(ctx, r, "Cache0") },
			MethodOCFGetStats, `{"name":"Cache0"}`,
		},
		{
			"raid list",
			func() (json.RawMessage, error) { return RaidGetBdevs(ctx, r, RaidCategoryOnline) },
			MethodRaidGetBdevs, `{"category":"online"}`,
		},
		{
			"delay create",
			func() (json.RawMessage, error) {
				return DelayCreate(ctx, r, DelayCreateRequest{BaseBdevName: "Malloc0", Name: "Delay0", AvgReadLatency: 10, P99ReadLatency: 100, AvgWriteLatency: 20, P99WriteLatency: 200})
			},
			MethodDelayCreate, `{"base_bdev_name":"Malloc0","name":"Delay0","avg_read_latency":10,"p99_read_latency":100,"avg_write_latency":20,"p99_write_latency":200}`,
		},
		{
			"delay update",
			func() (json.RawMessage, error) {
				return DelayUpdateLatency(ctx, r, DelayUpdateLatencyRequest{DelayBdevName: "Delay0", LatencyType: DelayLatencyTypeP99Write, LatencyUs: 500})
			},
			MethodDelayUpdateLatency, `{"delay_bdev_name":"Delay0","latency_type":"p99_write","latency_us":500}`,
		},
		{
			"error create",
			func() (json.RawMessage, error) { return ErrorCreate(ctx, r, "Malloc0") },
			MethodErrorCreate, `{"base_name":"Malloc0"}`,
		},
		{
			"iscsi create",
			func() (json.RawMessage, error) {
				return IscsiCreate(ctx, r, IscsiCreateRequest{Name: "iSCSI0", URL: "iscsi://127.0.0.1/iqn.2016-06.io.spdk:disk1/0", InitiatorIQN: "iqn.2016-06.io.spdk:init"})
			},
			MethodIscsiCreate, `{"name":"iSCSI0","url":"iscsi://127.0.0.1/iqn.2016-06.io.spdk:disk1/0","initiator_iqn":"iqn.2016-06.io.spdk:init"}`,
		},
		{
			"pmem create",
			func() (json.RawMessage, error) { return PmemCreate(ctx, r, "/tmp/pmem_file", "Pmem0") },
			MethodPmemCreate, `{"pmem_file":"/tmp/pmem_file","name":"Pmem0"}`,
		},
		{
			"passthru create",
			func() (json.RawMessage, error) { return PassthruCreate(ctx, r, "Malloc0", "PT0") },
			MethodPassthruCreate, `{"base_bdev_name":"Malloc0","name":"PT0"}`,
		},
		{
			"split delete",
			func() (json.RawMessage, error) { return SplitDelete(ctx, r, "Nvme0n1") },
			MethodSplitDelete, `{"base_bdev":"Nvme0n1"}`,
		},
		{
			"histogram",
			func() (json.RawMessage, error) { return EnableHistogram(ctx, r, "Malloc0", false) },
			MethodEnableHistogram, `{"name":"Malloc0","enable":false}`,
		},
		{
			"qd sampling",
			func() (json.RawMessage, error) { return SetQdSamplingPeriod(ctx, r, "Malloc0", 0) },
			MethodSetQdSamplingPeriod, `{"name":"Malloc0","period":0}`,
		},
		{
			"firmware",
			func() (json.RawMessage, error) { return NvmeApplyFirmware(ctx, r, "Nvme0n1", "fw.bin") },
			MethodNvmeApplyFirmware, `{"bdev_name":"Nvme0n1","filename":"fw.bin"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.call()
			require.NoError(t, err)
			assert.Equal(t, tc.method, r.method)
			assert.JSONEq(t, tc.params, r.params)
		})
	}
}

func TestDeleteOperations(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}

	deletes := map[string]func(context.Context, Caller, string) (json.RawMessage, error){
		MethodCompressDelete:       CompressDelete,
		MethodCryptoDelete:         CryptoDelete,
		MethodOCFDelete:            OCFDelete,
		MethodMallocDelete:         MallocDelete,
		MethodNullDelete:           NullDelete,
		MethodRaidDelete:           RaidDelete,
		MethodAioDelete:            AioDelete,
		MethodNvmeDetachController: NvmeDetachController,
		MethodRbdDelete:            RbdDelete,
		MethodErrorDelete:          ErrorDelete,
		MethodDelayDelete:          DelayDelete,
		MethodIscsiDelete:          IscsiDelete,
		MethodPmemDelete:           PmemDelete,
		MethodPassthruDelete:       PassthruDelete,
		MethodFtlDelete:            FtlDelete,
		MethodGetHistogram:         GetHistogram,
	}
	for method, fn := range deletes {
		_, err := fn(ctx, r, "Dev0")
		require.NoError(t, err)
		assert.Equal(t, method, r.method)
		assert.JSONEq(t, `{"name":"Dev0"}`, r.params)
	}
}

func TestOCFGetBdevsWithoutName(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}

	_, err := OCFGetBdevs(ctx, r, OCFGetBdevsRequest{})
	require.NoError(t, err)
	assert.Equal(t, MethodOCFGetBdevs, r.method)
	assert.Empty(t, r.params)

	_, err = OCFGetBdevs(ctx, r, OCFGetBdevsRequest{Name: pointer.String("Cache0")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Cache0"}`, r.params)
}

func TestRaidCreate(t *testing.T) {
	r := &recorder{}

	_, err := RaidCreate(context.Background(), r, RaidCreateRequest{
		Name:        "Raid0",
		RaidLevel:   "0",
		BaseBdevs:   []string{"Nvme0n1", "Nvme1n1"},
		StripSizeKB: pointer.Uint32(64),
	})
	require.NoError(t, err)
	assert.Equal(t, MethodRaidCreate, r.method)
	assert.JSONEq(t, `{"name":"Raid0","raid_level":"0","base_bdevs":"Nvme0n1 Nvme1n1","strip_size_kb":64}`, r.params)
}

func TestRbdCreate(t *testing.T) {
	r := &recorder{}

	_, err := RbdCreate(context.Background(), r, RbdCreateRequest{
		PoolName:  "rbd",
		RbdName:   "img",
		BlockSize: 4096,
		Name:      pointer.String("Ceph0"),
		User:      pointer.String(""),
		Config:    map[string]string{},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pool_name":"rbd","rbd_name":"img","block_size":4096,"name":"Ceph0","user_id":"","config":{}}`, r.params)
}

func TestErrorInjectErrorDefaultNum(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}

	_, err := ErrorInjectError(ctx, r, ErrorInjectErrorRequest{Name: "EE_Malloc0", IOType: ErrorIOTypeRead, ErrorType: ErrorTypeFailure})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"EE_Malloc0","io_type":"read","error_type":"failure","num":1}`, r.params)

	_, err = ErrorInjectError(ctx, r, ErrorInjectErrorRequest{Name: "EE_Malloc0", IOType: ErrorIOTypeAll, ErrorType: ErrorTypePending, Num: pointer.Uint32(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"EE_Malloc0","io_type":"all","error_type":"pending","num":0}`, r.params)
}

func TestFtlCreate(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}

	_, err := FtlCreate(ctx, r, FtlCreateRequest{
		Name:   "n",
		TrType: "t",
		TrAddr: "a",
		Punits: "0-3",
		Extra: map[string]ExtraValue{
			"extra_opt": nil,
			"other_opt": IntValue(5),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, MethodFtlCreate, r.method)
	assert.JSONEq(t, `{"name":"n","trtype":"t","traddr":"a","punits":"0-3","other_opt":5}`, r.params)

	_, err = FtlCreate(ctx, r, FtlCreateRequest{
		Name:             "ftl0",
		TrType:           NvmeTransportTypePCIe,
		TrAddr:           "0000:00:04.0",
		Punits:           "0-3",
		AllowOpenBands:   pointer.Bool(true),
		Overprovisioning: pointer.Uint32(0),
		Cache:            pointer.String("Malloc0"),
		Extra: map[string]ExtraValue{
			"limit_crit": FloatValue(0.5),
			"name_hint":  StringValue("x"),
			"debug":      BoolValue(false),
			"band_size":  UintValue(1 << 20),
		},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name":"ftl0","trtype":"PCIe","traddr":"0000:00:04.0","punits":"0-3",
		"allow_open_bands":true,"overprovisioning":0,"cache":"Malloc0",
		"limit_crit":0.5,"name_hint":"x","debug":false,"band_size":1048576
	}`, r.params)
}

func TestFtlCreateRejectsExtraKeys(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}

	for _, key := range []string{"name", "punits", "uuid", "use_append", "Bad-Key", ""} {
		_, err := FtlCreate(ctx, r, FtlCreateRequest{
			Name:  "ftl0",
			Extra: map[string]ExtraValue{key: IntValue(1)},
		})
		require.Error(t, err, key)
		assert.True(t, errors.Is(err, ErrInvalidArgument), key)
	}
	for _, f := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err := FtlCreate(ctx, r, FtlCreateRequest{
			Name:  "ftl0",
			Extra: map[string]ExtraValue{"ratio": FloatValue(f)},
		})
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	}
	assert.Equal(t, 0, r.calls)

	// The request marshals the same way on its own.
	raw, err := json.Marshal(FtlCreateRequest{Name: "ftl0", Punits: "0-1", UseAppend: pointer.Bool(false)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ftl0","trtype":"","traddr":"","punits":"0-1","use_append":false}`, string(raw))
}

func TestCallerErrorIsReturnedUnchanged(t *testing.T) {
	callErr := errors.New("connection refused")
	r := &recorder{err: callErr}

	_, err := MallocDelete(context.Background(), r, "Malloc0")
	assert.Same(t, callErr, err)

	_, err = FtlCreate(context.Background(), r, FtlCreateRequest{Name: "ftl0"})
	assert.Same(t, callErr, err)
}

func TestInto(t *testing.T) {
	r := &recorder{result: json.RawMessage(`["Nvme0n1","Nvme0n2"]`)}

	names, err := Into[[]string](NvmeAttachController(context.Background(), r, NvmeAttachControllerRequest{Name: "Nvme0"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Nvme0n1", "Nvme0n2"}, names)

	_, err = Into[bool](json.RawMessage(`"yes"`), nil)
	assert.Error(t, err)

	callErr := errors.New("boom")
	_, err = Into[string](nil, callErr)
	assert.Same(t, callErr, err)
}
