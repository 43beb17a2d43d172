package bdev

import (
	"context"
	"encoding/json"
)

type CryptoCreateRequest struct {
	BaseBdevName string `json:"base_bdev_name"`
	Name         string `json:"name"`
	// Name of the DPDK crypto driver.
	CryptoPMD string `json:"crypto_pmd"`
	Key       string `json:"key"`
}

func CryptoCreate(ctx context.Context, c Caller, req CryptoCreateRequest) (json.RawMessage, error) {
	return c.Call(ctx, MethodCryptoCreate, req)
}

func CryptoDelete(ctx context.Context, c Caller, name string) (json.RawMessage, error) {
	return callName(ctx, c, MethodCryptoDelete, name)
}
