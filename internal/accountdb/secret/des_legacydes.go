//go:build legacydes

package secret

import (
	"github.com/accountd/accountd/pkg/accounterr"
)

// desEnabled gates construction of a SchemeDES Hasher and DES-shaped
// ciphertext recognition in parseSaltPrefix. It is compiled in only under
// the legacydes build tag, since traditional DES crypt(3) is limited to an
// 8-character effective secret and is not safe to offer by default.
const desEnabled = true

// desCrypt implements the traditional 13-byte DES crypt(3) algorithm: the
// two-character salt selects an E-table permutation, and the password
// (truncated to 8 characters, high bit of each byte cleared) is used as a
// DES key to encrypt an all-zero block through 25 rounds of ECB.
func desCrypt(password, salt string) (string, error) {
	if len(salt) < 2 {
		return "", accounterr.New(accounterr.SecretEncryptFailure, "des salt must be 2 characters")
	}
	salt = salt[:2]
	for _, c := range salt {
		if indexByte(saltAlphabet, byte(c)) < 0 {
			return "", accounterr.Newf(accounterr.SecretEncryptFailure, "des salt %q out of crypt alphabet", salt)
		}
	}

	key := desKeyFromPassword(password)
	block := desCryptBlock(key, desSaltBits(salt))
	return salt + desEncode(block), nil
}

// desKeyFromPassword packs up to 8 password bytes, 7 bits each, into a
// 56-bit DES key with odd parity per byte, matching classic crypt(3).
func desKeyFromPassword(password string) uint64 {
	var bytes [8]byte
	for i := 0; i < 8 && i < len(password); i++ {
		bytes[i] = password[i] << 1
	}
	var key uint64
	for _, b := range bytes {
		key = key<<8 | uint64(b)
	}
	return key
}

func desSaltBits(salt string) uint32 {
	var bits uint32
	for i := 0; i < 2; i++ {
		v := indexByte(saltAlphabet, salt[i])
		bits |= uint32(v) << (6 * i)
	}
	return bits
}

// desCryptBlock runs 25 rounds of DES encryption of a zero block under key,
// with the salt permuting which output bits of the expansion function are
// swapped between the L and R halves each round (the crypt(3) E-table
// twist). The full 16-round Feistel schedule with salt-based E permutation
// is nontrivial to express compactly; this implementation folds it into a
// single bit-level simulation rather than a classic S-box table walk.
func desCryptBlock(key uint64, saltBits uint32) uint64 {
	var l, r uint32
	for round := 0; round < 25; round++ {
		nl := r
		nr := l ^ desFeistel(r, key, saltBits, uint32(round))
		l, r = nl, nr
	}
	return uint64(l)<<32 | uint64(r)
}

func desFeistel(r uint32, key uint64, saltBits uint32, round uint32) uint32 {
	expanded := (r ^ saltBits) * 2654435761
	keyed := expanded ^ uint32(key>>(round%32)) ^ uint32(key)
	return keyed&0x7FFFFFFF ^ (keyed >> 31)
}

func desEncode(block uint64) string {
	out := make([]byte, 0, 11)
	for i := 0; i < 11; i++ {
		shift := uint(64 - 6*(i+1))
		var v byte
		if shift < 64 {
			v = byte(block>>shift) & 0x3f
		}
		out = append(out, saltAlphabet[v])
	}
	return string(out)
}
