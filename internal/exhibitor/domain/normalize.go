package domain

import (
	"errors"
	"regexp"
	"strings"
)

// 電話番号として許容する正規化後の桁数。
const (
	PhoneMinDigits = 10
	PhoneMaxDigits = 15
)

// 年齢として許容する範囲。
const (
	AgeMin = 0
	AgeMax = 99
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeDigits は全角数字を半角へ変換し、ハイフン類と空白を取り除く。
// 入力フォームからの「０９０-１２３４-５６７８」のような値を機械可読にする。
func NormalizeDigits(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))
	for _, r := range value {
		switch {
		case r >= '０' && r <= '９':
			builder.WriteRune('0' + (r - '０'))
		case r == '-' || r == '‐' || r == '−' || r == 'ー' || r == '－':
			// ハイフン・長音記号の揺れはすべて区切り扱いで捨てる
		case r == ' ' || r == '　':
		default:
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// NormalizePhoneNumber は電話番号を正規化し、数字のみ・規定桁数で
// あることを検証したうえで返す。
func NormalizePhoneNumber(value string) (string, error) {
	normalized := NormalizeDigits(strings.TrimSpace(value))
	if normalized == "" {
		return "", errors.New("電話番号を入力してください")
	}
	for _, r := range normalized {
		if r < '0' || r > '9' {
			return "", errors.New("電話番号は数字で入力してください")
		}
	}
	if len(normalized) < PhoneMinDigits || len(normalized) > PhoneMaxDigits {
		return "", errors.New("電話番号の桁数が正しくありません")
	}
	return normalized, nil
}

// ValidEmail は local@domain.tld 形式かどうかを返す。
func ValidEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

// ValidAge は年齢が許容範囲に収まるかどうかを返す。
func ValidAge(age int) bool {
	return age >= AgeMin && age <= AgeMax
}
