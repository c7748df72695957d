package helpers

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	Errors "errors"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/hsn8086/re-hcat-server/global"
)

// EncryptAuthData seals the auth cookie plaintext with AES-GCM under the
// server secret; output is base64(nonce + ciphertext)
func EncryptAuthData(plaintext []byte) (string, error) {
	cipherBlock, err := aes.NewCipher(global.SecretKey)
	if err != nil {
		return "", err
	}
	cipherAESGCM, err := cipher.NewGCM(cipherBlock)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, cipherAESGCM.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := cipherAESGCM.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptAuthData opens an auth cookie blob; any malformed input is an error
func DecryptAuthData(blob string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, err
	}
	cipherBlock, err := aes.NewCipher(global.SecretKey)
	if err != nil {
		return nil, err
	}
	cipherAESGCM, err := cipher.NewGCM(cipherBlock)
	if err != nil {
		return nil, err
	}
	if len(sealed) < cipherAESGCM.NonceSize() {
		return nil, Errors.New("auth data too short")
	}
	nonce := sealed[:cipherAESGCM.NonceSize()]
	return cipherAESGCM.Open(nil, nonce, sealed[cipherAESGCM.NonceSize():], nil)
}

// GenerateStreamJWT generates a short-lived token for the websocket stream
func GenerateStreamJWT(userID string) (string, error) {
	claims := jwt.MapClaims{}
	claims["id"] = userID
	claims["exp"] = time.Now().Add(time.Hour * 1).Unix()
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(global.SecretKey)
}

// ParseStreamJWT parses a stream token to its user id
func ParseStreamJWT(jwtString string) (string, error) {
	token, err := jwt.Parse(jwtString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, Errors.New("unexpected signing method")
		}
		return global.SecretKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", Errors.New("invalid stream token")
	}
	userID, _ := claims["id"].(string)
	if userID == "" {
		return "", Errors.New("invalid stream token")
	}
	return userID, nil
}
