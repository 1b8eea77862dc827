package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	algorithmID           = "argon2id"
)

// ErrInvalidHash 存储的哈希不是合法的 argon2id PHC 字符串
var ErrInvalidHash = errors.New("security: invalid argon2id hash")

// HasherConfig argon2id 参数
type HasherConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultHasherConfig 返回默认参数（64MB, t=3, p=2）
func DefaultHasherConfig() HasherConfig {
	return HasherConfig{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher argon2id 密码哈希，输出 PHC 格式：
// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
type Hasher struct {
	config HasherConfig
}

// NewHasher 创建 Hasher，参数低于下限时返回错误
func NewHasher(cfg HasherConfig) (*Hasher, error) {
	switch {
	case cfg.Memory < minMemoryKB:
		return nil, fmt.Errorf("security: argon2 memory must be >= %d KB", minMemoryKB)
	case cfg.Time < minTimeCost:
		return nil, errors.New("security: argon2 time must be >= 1")
	case cfg.Parallelism < minParallelism:
		return nil, errors.New("security: argon2 parallelism must be >= 1")
	case cfg.SaltLength < minSaltLength:
		return nil, fmt.Errorf("security: salt length must be >= %d", minSaltLength)
	case cfg.KeyLength < minKeyLength:
		return nil, fmt.Errorf("security: key length must be >= %d", minKeyLength)
	}
	return &Hasher{config: cfg}, nil
}

// Hash 生成密码哈希
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("security: password is empty")
	}

	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("security: read salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.config.Time, h.config.Memory, h.config.Parallelism, h.config.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.config.Memory,
		h.config.Time,
		h.config.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify 用哈希中记录的参数重新计算并做常量时间比较。
// 密码不匹配返回 (false, nil)；哈希格式错误返回 ErrInvalidHash
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	p, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.parallelism, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(computed, p.key) == 1, nil
}

type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func parsePHC(encoded string) (*phc, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithmID {
		return nil, ErrInvalidHash
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidHash, parts[2])
	}

	p := &phc{}
	var memorySet, timeSet, parallelismSet bool
	for _, pair := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: bad parameter %q", ErrInvalidHash, pair)
		}
		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || uint32(n) < minMemoryKB {
				return nil, fmt.Errorf("%w: bad memory", ErrInvalidHash)
			}
			p.memory, memorySet = uint32(n), true
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || uint32(n) < minTimeCost {
				return nil, fmt.Errorf("%w: bad time", ErrInvalidHash)
			}
			p.time, timeSet = uint32(n), true
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || uint8(n) < minParallelism {
				return nil, fmt.Errorf("%w: bad parallelism", ErrInvalidHash)
			}
			p.parallelism, parallelismSet = uint8(n), true
		default:
			return nil, fmt.Errorf("%w: unknown parameter %q", ErrInvalidHash, k)
		}
	}
	if !memorySet || !timeSet || !parallelismSet {
		return nil, fmt.Errorf("%w: missing parameters", ErrInvalidHash)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) < int(minSaltLength) {
		return nil, fmt.Errorf("%w: bad salt", ErrInvalidHash)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) < int(minKeyLength) {
		return nil, fmt.Errorf("%w: bad key", ErrInvalidHash)
	}
	return p, nil
}
