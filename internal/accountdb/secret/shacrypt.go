package secret

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// sha256Crypt and sha512Crypt implement Ulrich Drepper's SHA-crypt scheme
// ("$5$"/"$6$"), parameterized only by which hash.Hash constructor and
// digest size is used; the block-mixing structure is identical for both.

func sha256Crypt(password, salt string, rounds int) string {
	digest := shaCrypt(password, salt, rounds, sha256.New, sha256.Size)
	return "$5$" + roundsPrefix(rounds) + salt + "$" + b64FromDigest32(digest)
}

func sha512Crypt(password, salt string, rounds int) string {
	digest := shaCrypt(password, salt, rounds, sha512.New, sha512.Size)
	return "$6$" + roundsPrefix(rounds) + salt + "$" + b64FromDigest64(digest)
}

func roundsPrefix(rounds int) string {
	if rounds == 5000 {
		return ""
	}
	return "rounds=" + itoa(rounds) + "$"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

const maxSaltLen = 16

func shaCrypt(password, salt string, rounds int, newHash func() hash.Hash, size int) []byte {
	if len(salt) > maxSaltLen {
		salt = salt[:maxSaltLen]
	}
	if rounds < 1000 {
		rounds = 1000
	}
	if rounds > 999999999 {
		rounds = 999999999
	}

	pw := []byte(password)
	sl := []byte(salt)

	ha := newHash()
	ha.Write(pw)
	ha.Write(sl)
	ha.Write(pw)
	digestA := ha.Sum(nil)

	hb := newHash()
	hb.Write(pw)
	hb.Write(sl)
	for n := len(pw); n > size; n -= size {
		hb.Write(digestA)
	}
	remaining := len(pw) % size
	if len(pw) > 0 && remaining == 0 && len(pw) >= size {
		remaining = size
	}
	hb.Write(digestA[:remaining])
	for n := len(pw); n > 0; n >>= 1 {
		if n&1 != 0 {
			hb.Write(digestA)
		} else {
			hb.Write(pw)
		}
	}
	digestB := hb.Sum(nil)

	hdp := newHash()
	for i := 0; i < len(pw); i++ {
		hdp.Write(pw)
	}
	dp := hdp.Sum(nil)
	pSeq := repeatToLen(dp, len(pw))

	saltRounds := 16 + int(digestB[0])
	hds := newHash()
	for i := 0; i < saltRounds; i++ {
		hds.Write(sl)
	}
	ds := hds.Sum(nil)
	sSeq := repeatToLen(ds, len(sl))

	digest := digestB
	for i := 0; i < rounds; i++ {
		hc := newHash()
		if i%2 != 0 {
			hc.Write(pSeq)
		} else {
			hc.Write(digest)
		}
		if i%3 != 0 {
			hc.Write(sSeq)
		}
		if i%7 != 0 {
			hc.Write(pSeq)
		}
		if i%2 != 0 {
			hc.Write(digest)
		} else {
			hc.Write(pSeq)
		}
		digest = hc.Sum(nil)
	}
	return digest
}

func repeatToLen(src []byte, n int) []byte {
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = src[i%len(src)]
	}
	return out
}

func b64From3(b2, b1, b0 byte, n int) string {
	v := uint32(b2)<<16 | uint32(b1)<<8 | uint32(b0)
	return to64(v, n)
}

var sha256Order = [10][3]int{
	{0, 10, 20}, {21, 1, 11}, {12, 22, 2}, {3, 13, 23}, {24, 4, 14},
	{15, 25, 5}, {6, 16, 26}, {27, 7, 17}, {18, 28, 8}, {9, 19, 29},
}

func b64FromDigest32(buf []byte) string {
	out := ""
	for _, t := range sha256Order {
		out += b64From3(buf[t[0]], buf[t[1]], buf[t[2]], 4)
	}
	out += b64From3(0, buf[31], buf[30], 3)
	return out
}

var sha512Order = [21][3]int{
	{0, 21, 42}, {22, 43, 1}, {44, 2, 23}, {3, 24, 45}, {25, 46, 4},
	{47, 5, 26}, {6, 27, 48}, {28, 49, 7}, {50, 8, 29}, {9, 30, 51},
	{31, 52, 10}, {53, 11, 32}, {12, 33, 54}, {34, 55, 13}, {56, 14, 35},
	{15, 36, 57}, {37, 58, 16}, {59, 17, 38}, {18, 39, 60}, {40, 61, 19},
	{62, 20, 41},
}

func b64FromDigest64(buf []byte) string {
	out := ""
	for _, t := range sha512Order {
		out += b64From3(buf[t[0]], buf[t[1]], buf[t[2]], 4)
	}
	out += b64From3(0, 0, buf[63], 2)
	return out
}
