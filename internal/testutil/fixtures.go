// Package testutil — общие фикстуры тестов: ключи, сертификаты, .p12, сервисный аккаунт.
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// P12Password — пароль всех тестовых .p12
const P12Password = "test-p12-password"

var (
	keyMu sync.Mutex
	keys  = map[string]*rsa.PrivateKey{}
)

// RSAKey — ключ сервисного аккаунта, один на весь прогон тестов
func RSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	return namedKey(t, "service-account")
}

// namedKey — RSA-2048 ключ, кэшированный по имени
func namedKey(t *testing.T, name string) *rsa.PrivateKey {
	t.Helper()
	keyMu.Lock()
	defer keyMu.Unlock()
	if k, ok := keys[name]; ok {
		return k
	}
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys[name] = k
	return k
}

func issue(t *testing.T, cn string, isCA bool, key *rsa.PrivateKey, parent *x509.Certificate, parentKey *rsa.PrivateKey) *x509.Certificate {
	t.Helper()
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: cn, Organization: []string{"Acme"}},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  isCA,
	}
	if isCA {
		tmpl.KeyUsage |= x509.KeyUsageCertSign
	}
	if parent == nil {
		parent, parentKey = tmpl, key
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, &key.PublicKey, parentKey)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

// Certificate — самоподписанный сертификат с собственным ключом
func Certificate(t *testing.T, cn string, isCA bool) *x509.Certificate {
	t.Helper()
	return issue(t, cn, isCA, namedKey(t, "self-signed"), nil, nil)
}

// Chain — цепочка root → WWDR → сертификат Pass Type ID, у каждого свой ключ
type Chain struct {
	Root    *x509.Certificate
	WWDR    *x509.Certificate
	Leaf    *x509.Certificate
	LeafKey *rsa.PrivateKey
}

func NewChain(t *testing.T) Chain {
	t.Helper()
	rootKey := namedKey(t, "root")
	wwdrKey := namedKey(t, "wwdr")
	leafKey := namedKey(t, "leaf")
	root := issue(t, "Test Root CA", true, rootKey, nil, nil)
	wwdr := issue(t, "Test WWDR", true, wwdrKey, root, rootKey)
	leaf := issue(t, "Pass Type ID: pass.acme", false, leafKey, wwdr, wwdrKey)
	return Chain{Root: root, WWDR: wwdr, Leaf: leaf, LeafKey: leafKey}
}

// P12 кодирует ключ и сертификат листа вместе с cas (в заданном порядке)
func (c Chain) P12(t *testing.T, cas ...*x509.Certificate) []byte {
	t.Helper()
	pfx, err := pkcs12.Modern.Encode(c.LeafKey, c.Leaf, cas, P12Password)
	require.NoError(t, err)
	return pfx
}

// PEM — сертификаты в PEM подряд
func PEM(certs ...*x509.Certificate) []byte {
	var out []byte
	for _, c := range certs {
		out = append(out, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: c.Raw})...)
	}
	return out
}

// SigningFiles — пути к тестовым .p12 и WWDR PEM
type SigningFiles struct {
	P12Path  string
	WWDRPath string
	Cert     *x509.Certificate
	WWDR     *x509.Certificate
	Chain    Chain
}

// WriteSigningFiles кладёт во временный каталог .p12 только с листом (пароль P12Password)
// и PEM промежуточного WWDR, выпустившего лист
func WriteSigningFiles(t *testing.T) SigningFiles {
	t.Helper()
	dir := t.TempDir()
	chain := NewChain(t)

	p12Path := filepath.Join(dir, "cert.p12")
	require.NoError(t, os.WriteFile(p12Path, chain.P12(t), 0o600))

	wwdrPath := filepath.Join(dir, "wwdr.pem")
	require.NoError(t, os.WriteFile(wwdrPath, PEM(chain.WWDR), 0o600))

	return SigningFiles{P12Path: p12Path, WWDRPath: wwdrPath, Cert: chain.Leaf, WWDR: chain.WWDR, Chain: chain}
}

// WriteServiceAccount пишет JSON сервисного аккаунта Google с тестовым ключом
func WriteServiceAccount(t *testing.T, email string) string {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(RSAKey(t))
	require.NoError(t, err)
	body, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"client_email":   email,
		"private_key_id": "test-key-id",
		"private_key":    string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
	})
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(p, body, 0o600))
	return p
}
