package ethtypes

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// WeiPerEther is the number of wei in one ether (10^18).
var WeiPerEther = decimal.New(1, 18)

// WeiPerGwei is the number of wei in one gwei (10^9).
var WeiPerGwei = decimal.New(1, 9)

// WeiToEther converts a wei amount to a decimal ether amount without
// precision loss.
func WeiToEther(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, 0).Div(WeiPerEther)
}

// EtherToWei converts a decimal ether amount to wei. Amounts with a
// fractional wei remainder are rejected rather than rounded.
func EtherToWei(ether decimal.Decimal) (*big.Int, error) {
	wei := ether.Mul(WeiPerEther)
	if !wei.IsInteger() {
		return nil, errors.Errorf("ethtypes: %s ether is not a whole number of wei", ether)
	}
	return wei.BigInt(), nil
}

// GweiToWei converts a decimal gwei amount (the usual unit for gas prices)
// to wei, rejecting fractional wei.
func GweiToWei(gwei decimal.Decimal) (*big.Int, error) {
	wei := gwei.Mul(WeiPerGwei)
	if !wei.IsInteger() {
		return nil, errors.Errorf("ethtypes: %s gwei is not a whole number of wei", gwei)
	}
	return wei.BigInt(), nil
}
