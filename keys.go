package txforge

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/sirupsen/logrus"
	"github.com/tyler-smith/go-bip32"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/ripemd160"
)

// KeyPair 是用于签名解锁脚本的 secp256k1 密钥对。
type KeyPair struct {
	privKey *btcec.PrivateKey
}

// NewKeyPair 随机生成一个新的密钥对。
func NewKeyPair() (*KeyPair, error) {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &KeyPair{privKey: privKey}, nil
}

// KeyPairFromBytes 根据 32 字节私钥创建密钥对。
func KeyPairFromBytes(key []byte) (*KeyPair, error) {
	if len(key) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", secp256k1.PrivKeyBytesLen, len(key))
	}
	return &KeyPair{privKey: secp256k1.PrivKeyFromBytes(key)}, nil
}

// KeyPairFromWIF 根据 WIF 编码的私钥创建密钥对。
func KeyPairFromWIF(wif string) (*KeyPair, error) {
	w, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return nil, err
	}
	return &KeyPair{privKey: w.PrivKey}, nil
}

// KeyPairFromExtendedKey 根据 BIP32 扩展私钥创建密钥对。
func KeyPairFromExtendedKey(key *bip32.Key) (*KeyPair, error) {
	if key == nil || !key.IsPrivate {
		return nil, fmt.Errorf("extended key is not private")
	}
	return KeyPairFromBytes(key.Key)
}

// SeedFromMnemonic 按 BIP39 的方式由助记词和口令派生 64 字节种子，可用于 bip32.NewMasterKey。
func SeedFromMnemonic(mnemonic, passphrase string) []byte {
	return pbkdf2.Key([]byte(mnemonic), []byte("mnemonic"+passphrase), 2048, 64, sha512.New)
}

// PrivKey 返回私钥。
func (kp *KeyPair) PrivKey() *btcec.PrivateKey {
	return kp.privKey
}

// PubKey 返回公钥。
func (kp *KeyPair) PubKey() *btcec.PublicKey {
	return kp.privKey.PubKey()
}

// PubKeyBytes 返回 33 字节压缩格式的公钥。
func (kp *KeyPair) PubKeyBytes() []byte {
	return kp.PubKey().SerializeCompressed()
}

// PubKeyHash 返回压缩公钥的 HASH160。
func (kp *KeyPair) PubKeyHash() []byte {
	return HashPubKey(kp.PubKeyBytes())
}

// Address 返回密钥对在指定网络上的 P2PKH 地址。
func (kp *KeyPair) Address(net *chaincfg.Params) (*btcutil.AddressPubKeyHash, error) {
	if net == nil {
		net = &chaincfg.MainNetParams
	}
	return btcutil.NewAddressPubKeyHash(kp.PubKeyHash(), net)
}

// WIF 返回私钥在指定网络上的 WIF 编码。
func (kp *KeyPair) WIF(net *chaincfg.Params) (string, error) {
	if net == nil {
		net = &chaincfg.MainNetParams
	}
	w, err := btcutil.NewWIF(kp.privKey, net, true)
	if err != nil {
		return "", err
	}
	return w.String(), nil
}

// HashPubKey 返回公钥的 RIPEMD160(SHA256(pubKey))。
func HashPubKey(pubKey []byte) []byte {
	publicSHA256 := sha256.Sum256(pubKey)

	hasher := ripemd160.New()
	if _, err := hasher.Write(publicSHA256[:]); err != nil {
		logrus.Panic(err)
	}
	return hasher.Sum(nil)
}
