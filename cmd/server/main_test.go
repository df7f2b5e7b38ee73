package main

import (
	"testing"
)

func TestAssetCurvesStablecoins(t *testing.T) {
	curves := assetCurves()

	stable := curves["USDT"]
	if !stable.Kink.Equal(curves["USDC"].Kink) {
		t.Fatalf("expected USDT and USDC to share the stablecoin curve")
	}

	if _, ok := curves["ETH"]; ok {
		t.Fatalf("expected ETH to use the default curve, not a per-asset one")
	}
}
