package scale

import (
	"regexp"
	"strconv"
	"strings"
)

// Tartı telemetrisinde ağırlık satırları kısadır; daha uzun satırlar
// cihazın başka çıktılarıdır ve yok sayılır
const maxLineLen = 50

// Sayısal token: rakamlar, opsiyonel ondalık ayracı (virgül veya nokta)
var weightPattern = regexp.MustCompile(`[0-9]+([.,][0-9]+)?`)

// ParseWeightLine: Tartıdan gelen tek bir satırdan ağırlığı çıkarır.
// Satır CR/LF'siz beklenir ama varsa temizlenir. Geçerli bir sayısal token
// bulunursa iki ondalık basamakla formatlanmış hali döner ("0123,45" -> "123.45").
func ParseWeightLine(line string) (string, bool) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" || len(line) > maxLineLen {
		return "", false
	}

	token := weightPattern.FindString(line)
	if token == "" {
		return "", false
	}

	// Virgül ondalık ayracını noktaya çevir
	token = strings.ReplaceAll(token, ",", ".")

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return "", false
	}

	return strconv.FormatFloat(value, 'f', 2, 64), true
}
