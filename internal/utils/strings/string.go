package strings

func IsCapitalized(str string) bool {
	if len(str) == 0 {
		return false
	}
	firstChar := rune(str[0])
	return firstChar >= 'A' && firstChar <= 'Z'
}

func Pluralize(singular, plural string, count int) string {
	if count == 1 {
		return singular
	}
	return plural
}
