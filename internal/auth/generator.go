package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeMin = 100000
	codeMax = 999999

	// EmployeePasswordLength - длина пароля приглашенного сотрудника
	EmployeePasswordLength = 12

	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()_-+=<>?/[]{}|"
)

// GenerateCode возвращает 6-значный код в диапазоне [100000, 999999]
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}

// GeneratePassword создает пароль, в котором есть хотя бы по одному символу
// каждого класса: заглавные, строчные, цифры, спецсимволы
func GeneratePassword(length int) (string, error) {
	classes := []string{upperChars, lowerChars, digitChars, specialChars}
	if length < len(classes) {
		return "", fmt.Errorf("password length must be at least %d", len(classes))
	}

	all := upperChars + lowerChars + digitChars + specialChars
	out := make([]byte, length)

	for i, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	for i := len(classes); i < length; i++ {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	// перемешиваем, чтобы обязательные символы не стояли в начале
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
