package services

import (
	"strings"
	"unicode"
)

type cannedAnswer struct {
	words    []string // whole-word matches
	keywords []string // substring matches ("vitamin" matches "multivitamin")
	reply    string
}

// Checked in order; the first match wins.
var cannedAnswers = []cannedAnswer{
	{
		words: []string{"hello", "hi", "hey"},
		reply: "Hello there! How can I help with your nutrition questions today?",
	},
	{
		keywords: []string{"calorie"},
		reply:    "Calories are a measure of energy in food. The average adult needs about 2000-2500 calories per day, but this varies based on age, gender, weight, height, and activity level. Would you like me to calculate your specific calorie needs?",
	},
	{
		keywords: []string{"protein"},
		reply:    "Protein is essential for building muscle and repairing tissues. Good sources include lean meats, fish, eggs, dairy, legumes, and nuts. The recommended daily intake is about 0.8g per kg of body weight for most adults.",
	},
	{
		keywords: []string{"vitamin"},
		reply:    "Vitamins are essential nutrients that your body needs in small amounts. They're found in a variety of foods, especially fruits and vegetables. Which specific vitamin would you like to know more about?",
	},
	{
		keywords: []string{"sugar"},
		reply:    "Added sugars should be limited in a healthy diet. The American Heart Association recommends no more than 36g (9 teaspoons) for men and 25g (6 teaspoons) for women per day. Natural sugars found in fruits and dairy are generally considered healthier than added sugars.",
	},
	{
		keywords: []string{"fruit"},
		reply:    "Fruits are excellent sources of vitamins, minerals, and fiber. Most adults should aim for 1.5-2 cups of fruit daily. Berries, apples, and citrus fruits are particularly high in antioxidants and have a lower glycemic index compared to tropical fruits.",
	},
	{
		keywords: []string{"vegetable", "veggies"},
		reply:    "Vegetables are crucial for a healthy diet, providing fiber, vitamins, and minerals. Aim for 2-3 cups daily, with a variety of colors to ensure diverse nutrients. Dark leafy greens like spinach and kale are particularly nutrient-dense.",
	},
	{
		keywords: []string{"water", "hydration", "drink"},
		reply:    "Staying hydrated is essential for overall health. The general recommendation is about 8 cups (64 ounces) of water daily, but needs vary based on activity level, climate, and individual factors. Your urine should be pale yellow - that's a good indicator of proper hydration.",
	},
}

const defaultCannedAnswer = "That's an interesting nutrition question! While I'm just a demo chatbot with limited responses, the full version of CalQ would provide detailed information about this topic. Is there something specific about nutrition you'd like to know?"

// FallbackReply answers from a fixed keyword table when the remote bot is down.
func FallbackReply(query string) string {
	lower := strings.ToLower(query)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, a := range cannedAnswers {
		if containsAny(lower, a.keywords) {
			return a.reply
		}
		for _, w := range words {
			if containsWord(a.words, w) {
				return a.reply
			}
		}
	}
	return defaultCannedAnswer
}

func containsWord(set []string, w string) bool {
	for _, s := range set {
		if s == w {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
