// Пакет mask: компиляция масок серийных номеров в проверочный предикат.
package mask

import (
	"regexp"
	"strings"
)

// Разрешённые символы маски и их классы символов.
var patterns = map[rune]string{
	'N': "[0-9]",
	'A': "[A-Z]",
	'a': "[a-z]",
	'X': "[A-Z0-9]",
	'Z': "[-_@]",
}

// Класс, который не совпадает ни с одним символом. Если в маске оказался
// посторонний символ, позиция "закрывается" и проверка просто не проходит.
const impossibleClass = `[^\s\S]`

var charsetRe = regexp.MustCompile(`^[NAaXZ]+$`)

// Legend — расшифровка символов маски для текстов ошибок валидации.
const Legend = "'N' is in [0-9], 'A' is in [A-Z], 'a' is in [a-z], 'X' is in [A-Z, 0-9], 'Z' is in [-_@]"

// ValidCharset сообщает, состоит ли маска только из символов N, A, a, X, Z.
// Пустая маска считается невалидной.
func ValidCharset(mask string) bool {
	return charsetRe.MatchString(mask)
}

// Mask — скомпилированная маска серийного номера.
type Mask struct {
	source string
	re     *regexp.Regexp
}

// Compile строит предикат по маске. Каждый символ маски превращается ровно
// в один класс символов, классы конкатенируются в порядке маски, шаблон
// якорится по всей строке. Compile никогда не возвращает ошибку: для
// неожиданных символов подставляется невыполнимый класс.
func Compile(mask string) *Mask {
	var sb strings.Builder
	sb.WriteString("^")
	for _, c := range mask {
		if class, ok := patterns[c]; ok {
			sb.WriteString(class)
		} else {
			sb.WriteString(impossibleClass)
		}
	}
	sb.WriteString("$")
	return &Mask{
		source: mask,
		re:     regexp.MustCompile(sb.String()),
	}
}

// Matches проверяет серийный номер: совпадение засчитывается, только если
// длина строки равна длине маски и каждая позиция попадает в свой класс.
func (m *Mask) Matches(serial string) bool {
	return m.re.MatchString(serial)
}

// Source возвращает исходную строку маски.
func (m *Mask) Source() string {
	return m.source
}
