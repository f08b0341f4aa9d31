//go:build !legacydes

package secret

import "github.com/accountd/accountd/pkg/accounterr"

// desEnabled is false in the default build: traditional DES crypt(3) is
// excluded unless the legacydes build tag is set. See des_legacydes.go.
const desEnabled = false

func desCrypt(password, salt string) (string, error) {
	return "", accounterr.New(accounterr.SecretEncryptFailure, "des scheme was excluded at build time (legacydes tag not set)")
}
