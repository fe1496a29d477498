package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	OrderIDLength   = 6
)

// GenerateOrderID returns a random uppercase base36 token of OrderIDLength characters.
func GenerateOrderID() (string, error) {
	max := big.NewInt(int64(len(orderIDAlphabet)))
	buf := make([]byte, OrderIDLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("error generating order id: %w", err)
		}
		buf[i] = orderIDAlphabet[n.Int64()]
	}

	return string(buf), nil
}
