package services

// stopWords — фиксированный двуязычный (английский + русский) набор
// стоп-слов, исключаемых из частотной статистики.
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		// Английские стоп-слова
		"the", "and", "or", "but", "in", "on", "at", "to", "for", "of",
		"with", "by", "a", "an", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "i", "you", "he", "she", "it", "we",
		"they", "me", "him", "her", "us", "them", "this", "that", "these",
		"those", "my", "your", "his", "its", "our", "their", "will",
		"would", "could", "should", "can", "may", "might", "must", "shall",
		"not", "no", "yes", "ok", "okay", "just", "now", "so", "well",
		"like", "really",
		// Русские стоп-слова
		"это", "что", "тот", "быть", "весь", "как", "она", "так", "его",
		"но", "да", "ты", "к", "у", "же", "вы", "за", "бы", "по", "только",
		"ее", "мне", "было", "вот", "от", "меня", "еще", "нет", "о", "из",
		"ему", "теперь", "когда", "даже", "ну", "вдруг", "ли", "если",
		"уже", "или", "ни", "был", "него", "до", "вас", "нибудь", "опять",
		"уж", "вам", "ведь", "там", "потом", "себя", "и", "в", "во", "не",
		"он", "на", "я", "с", "со", "а", "то", "все", "ей", "они", "где",
		"есть", "надо", "ней", "для", "мы", "тебя", "их", "чем", "была",
		"сам", "чтоб", "без", "будто", "чего", "раз", "тоже", "себе",
		"под", "будет", "ж", "тогда", "кто", "этот", "того", "потому",
		"этой", "над", "всех", "нас", "при", "были", "будем", "будут",
		"этого", "которой", "которые", "которых", "которому", "которая",
		"которое", "которую", "очень", "также", "кроме", "первый",
		"хорошо", "через", "можете", "знаю", "сказать", "какой", "нужно",
		"че", "чё",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}
