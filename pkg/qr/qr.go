package qr

import (
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"
)

// EncodeJSON renders the payload as a QR PNG.
func EncodeJSON(payload interface{}, size int) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(data), qrcode.Medium, size)
}
