package envelope

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/rambotech/dropzone-go/pkg/crypto/seal"
	"github.com/rambotech/dropzone-go/pkg/digest"
)

// ErrDataCompromised is returned by Decode when the recovered payload
// fails length or digest validation, or when an encrypted field cannot
// be opened.
var ErrDataCompromised = errors.New("envelope: data compromised")

// Envelope is the wire framing of a payload.
type Envelope struct {
	Payload        string `json:"payload"`
	Length         string `json:"length"`
	HashValidation string `json:"hashValidation"`
	IsEncrypted    bool   `json:"isEncrypted"`
}

// Marshal renders the envelope as JSON.
func (e Envelope) Marshal() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Parse decodes a JSON envelope.
func Parse(data string) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}

// Codec encodes and decodes envelopes. A zero-configured codec
// produces plaintext envelopes; NewEncrypted produces sealing codecs.
type Codec struct {
	sealer seal.Sealer
}

// New creates a plaintext codec.
func New() *Codec {
	return &Codec{}
}

// NewEncrypted creates a codec that seals envelope fields under a key
// derived from password and salt.
func NewEncrypted(password, salt string) (*Codec, error) {
	sealer, err := seal.NewFromPassword(password, salt)
	if err != nil {
		return nil, err
	}
	return &Codec{sealer: sealer}, nil
}

// Encrypted reports whether the codec seals envelope fields.
func (c *Codec) Encrypted() bool {
	return c.sealer != nil
}

// Encode frames raw payload content into an envelope.
func (c *Codec) Encode(raw string) (Envelope, error) {
	sum := digest.Hash(raw)

	if c.sealer == nil {
		return Envelope{
			Payload:        raw,
			Length:         strconv.Itoa(len(raw)),
			HashValidation: sum,
		}, nil
	}

	token, err := lengthToken(len(raw))
	if err != nil {
		return Envelope{}, err
	}

	payload, err := seal.SealString(c.sealer, raw)
	if err != nil {
		return Envelope{}, err
	}
	length, err := seal.SealString(c.sealer, token)
	if err != nil {
		return Envelope{}, err
	}
	hash, err := seal.SealString(c.sealer, sum)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		Payload:        payload,
		Length:         length,
		HashValidation: hash,
		IsEncrypted:    true,
	}, nil
}

// Decode recovers the raw payload from an envelope, validating length
// and digest. Any validation failure surfaces ErrDataCompromised.
func (c *Codec) Decode(e Envelope) (string, error) {
	payload := e.Payload
	lengthField := e.Length
	hash := e.HashValidation

	if e.IsEncrypted {
		if c.sealer == nil {
			return "", errors.New("envelope: codec not configured for encrypted envelopes")
		}
		var err error
		if payload, err = seal.OpenString(c.sealer, payload); err != nil {
			return "", ErrDataCompromised
		}
		if lengthField, err = seal.OpenString(c.sealer, lengthField); err != nil {
			return "", ErrDataCompromised
		}
		if hash, err = seal.OpenString(c.sealer, hash); err != nil {
			return "", ErrDataCompromised
		}
		lengthField = middleField(lengthField)
	}

	want, err := strconv.Atoi(strings.TrimSpace(lengthField))
	if err != nil || want < 0 {
		return "", ErrDataCompromised
	}
	if len(payload) != want {
		return "", ErrDataCompromised
	}
	if !digest.Verify(payload, hash) {
		return "", ErrDataCompromised
	}
	return payload, nil
}

// middleField extracts the length from a "<prefix>,<length>,<suffix>"
// token. Malformed tokens return an empty string, which fails the
// numeric parse in Decode.
func middleField(token string) string {
	parts := strings.Split(token, ",")
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}

// lengthToken builds the obfuscated length token for n: random digit
// padding of 3-5 characters before and 4-7 after the real length.
func lengthToken(n int) (string, error) {
	prefix, err := randomDigits(3, 5)
	if err != nil {
		return "", err
	}
	suffix, err := randomDigits(4, 7)
	if err != nil {
		return "", err
	}
	return prefix + "," + strconv.Itoa(n) + "," + suffix, nil
}

// randomDigits returns a random string of decimal digits whose length
// is uniform in [minLen, maxLen].
func randomDigits(minLen, maxLen int) (string, error) {
	span, err := rand.Int(rand.Reader, big.NewInt(int64(maxLen-minLen+1)))
	if err != nil {
		return "", err
	}
	length := minLen + int(span.Int64())

	var b strings.Builder
	for i := 0; i < length; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
