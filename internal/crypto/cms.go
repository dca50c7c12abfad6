package crypto

import (
	"bytes"
	stdcrypto "crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"slices"

	"go.mozilla.org/pkcs7"
	pkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
)

// SigningIdentity — сертификат подписи пропусков, его ключ и цепочка
type SigningIdentity struct {
	Certificate   *x509.Certificate
	Key           stdcrypto.Signer
	Intermediates []*x509.Certificate
}

// LoadSigningIdentity разбирает защищённый паролем PKCS#12. Промежуточные
// сертификаты из самого .p12 сохраняются в цепочке.
func LoadSigningIdentity(p12 []byte, password string) (*SigningIdentity, error) {
	key, cert, chain, err := pkcs12.DecodeChain(p12, password)
	if err != nil {
		return nil, apperr.New(apperr.SigningFailed, fmt.Errorf("pkcs12: %w", err))
	}
	signer, ok := key.(stdcrypto.Signer)
	if !ok {
		return nil, apperr.Newf(apperr.SigningFailed, "pkcs12: unsupported key type %T", key)
	}
	return &SigningIdentity{Certificate: cert, Key: signer, Intermediates: chain}, nil
}

// AddIntermediate добавляет промежуточный сертификат (PEM или DER), например WWDR
func (s *SigningIdentity) AddIntermediate(data []byte) error {
	certs, err := ParseCertificates(data)
	if err != nil {
		return apperr.New(apperr.SigningFailed, fmt.Errorf("intermediate: %w", err))
	}
	s.Intermediates = append(s.Intermediates, certs...)
	return nil
}

// SignDetached — отделённая подпись PKCS#7 SignedData (SHA-256) над content
func (s *SigningIdentity) SignDetached(content []byte) ([]byte, error) {
	sd, err := pkcs7.NewSignedData(content)
	if err != nil {
		return nil, apperr.New(apperr.SigningFailed, err)
	}
	sd.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)
	if err := sd.AddSignerChain(s.Certificate, s.Key, s.Chain(), pkcs7.SignerInfoConfig{}); err != nil {
		return nil, apperr.New(apperr.SigningFailed, fmt.Errorf("add signer: %w", err))
	}
	sd.Detach()
	out, err := sd.Finish()
	if err != nil {
		return nil, apperr.New(apperr.SigningFailed, err)
	}
	return out, nil
}

// Chain — путь от издателя листа вверх: parents[0] выпустил лист, каждый следующий
// выпустил предыдущий. Дубликаты и сертификаты вне пути отбрасываются.
func (s *SigningIdentity) Chain() []*x509.Certificate {
	pool := make([]*x509.Certificate, 0, len(s.Intermediates))
	seen := map[string]bool{string(s.Certificate.Raw): true}
	for _, c := range s.Intermediates {
		if c == nil || seen[string(c.Raw)] {
			continue
		}
		seen[string(c.Raw)] = true
		pool = append(pool, c)
	}

	var path []*x509.Certificate
	cur := s.Certificate
	for !selfSigned(cur) {
		next := issuerOf(cur, pool)
		if next == nil {
			break
		}
		path = append(path, next)
		pool = slices.DeleteFunc(pool, func(c *x509.Certificate) bool { return c == next })
		cur = next
	}
	return path
}

func issuerOf(cert *x509.Certificate, pool []*x509.Certificate) *x509.Certificate {
	for _, c := range pool {
		if bytes.Equal(cert.RawIssuer, c.RawSubject) && cert.CheckSignatureFrom(c) == nil {
			return c
		}
	}
	return nil
}

func selfSigned(c *x509.Certificate) bool {
	return bytes.Equal(c.RawIssuer, c.RawSubject)
}

// ParseCertificates читает все сертификаты из PEM, иначе трактует данные как DER
func ParseCertificates(data []byte) ([]*x509.Certificate, error) {
	var out []*x509.Certificate
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		c, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if len(out) > 0 {
		return out, nil
	}
	certs, err := x509.ParseCertificates(data)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, errors.New("no certificates found")
	}
	return certs, nil
}
