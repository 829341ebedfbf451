package tlsroots

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// selfSignedPEM generates a self-signed certificate and returns the
// cert and key in PEM form.
func selfSignedPEM(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "dropzone-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		IsCA:         true,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM
}

func TestPool_AddCertPEM(t *testing.T) {
	certPEM, _ := selfSignedPEM(t)

	pool, err := NewPool()
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	if err := pool.AddCertPEM(certPEM); err != nil {
		t.Fatalf("AddCertPEM() error = %v", err)
	}
	if pool.Pool() == nil {
		t.Fatal("Pool() returned nil")
	}
	if cfg := pool.TLSConfig(); cfg.RootCAs == nil {
		t.Error("TLSConfig() has no root CAs")
	}
}

func TestPool_AddCertPEM_NoCerts(t *testing.T) {
	pool, _ := NewPool()
	err := pool.AddCertPEM([]byte("not a certificate"))
	if !errors.Is(err, ErrNoCertsFound) {
		t.Errorf("error = %v, want ErrNoCertsFound", err)
	}
}

func TestPool_AddCertFile(t *testing.T) {
	certPEM, _ := selfSignedPEM(t)
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, certPEM, 0600); err != nil {
		t.Fatalf("write cert: %v", err)
	}

	pool, _ := NewPool()
	if err := pool.AddCertFile(path); err != nil {
		t.Fatalf("AddCertFile() error = %v", err)
	}
}

func TestPool_AddCertFile_Missing(t *testing.T) {
	pool, _ := NewPool()
	if err := pool.AddCertFile(filepath.Join(t.TempDir(), "absent.pem")); err == nil {
		t.Error("expected error for missing file")
	}
}
