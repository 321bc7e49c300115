package questions

import "github.com/triviarena/triviarena/internal/models"

// fallbackBank is the built-in question set used when the external service
// fails or times out. Gameplay is never blocked on content generation.
var fallbackBank = []models.Question{
	{
		Question:           "Which planet is known as the Red Planet?",
		Options:            []string{"Venus", "Mars", "Jupiter", "Mercury"},
		CorrectAnswerIndex: 1,
		Category:           "science",
		Difficulty:         "easy",
		Explanation:        "Iron oxide on its surface gives Mars its reddish appearance.",
	},
	{
		Question:           "What is the largest ocean on Earth?",
		Options:            []string{"Atlantic", "Indian", "Pacific", "Arctic"},
		CorrectAnswerIndex: 2,
		Category:           "geography",
		Difficulty:         "easy",
		Explanation:        "The Pacific covers more area than all land on Earth combined.",
	},
	{
		Question:           "Who painted the Mona Lisa?",
		Options:            []string{"Michelangelo", "Raphael", "Leonardo da Vinci", "Donatello"},
		CorrectAnswerIndex: 2,
		Category:           "art",
		Difficulty:         "easy",
		Explanation:        "Leonardo da Vinci painted it in the early 16th century.",
	},
	{
		Question:           "What is the chemical symbol for gold?",
		Options:            []string{"Go", "Gd", "Au", "Ag"},
		CorrectAnswerIndex: 2,
		Category:           "science",
		Difficulty:         "easy",
		Explanation:        "Au comes from aurum, the Latin word for gold.",
	},
	{
		Question:           "Which country hosted the 2016 Summer Olympics?",
		Options:            []string{"China", "Brazil", "United Kingdom", "Japan"},
		CorrectAnswerIndex: 1,
		Category:           "sports",
		Difficulty:         "easy",
		Explanation:        "The games were held in Rio de Janeiro, Brazil.",
	},
	{
		Question:           "How many continents are there?",
		Options:            []string{"5", "6", "7", "8"},
		CorrectAnswerIndex: 2,
		Category:           "geography",
		Difficulty:         "easy",
		Explanation:        "The seven-continent model is the most widely taught.",
	},
	{
		Question:           "What is the smallest prime number?",
		Options:            []string{"0", "1", "2", "3"},
		CorrectAnswerIndex: 2,
		Category:           "math",
		Difficulty:         "easy",
		Explanation:        "2 is the smallest and the only even prime.",
	},
	{
		Question:           "Which language has the most native speakers?",
		Options:            []string{"English", "Hindi", "Spanish", "Mandarin Chinese"},
		CorrectAnswerIndex: 3,
		Category:           "culture",
		Difficulty:         "medium",
		Explanation:        "Mandarin Chinese has roughly a billion native speakers.",
	},
	{
		Question:           "In which year did the Berlin Wall fall?",
		Options:            []string{"1987", "1989", "1991", "1993"},
		CorrectAnswerIndex: 1,
		Category:           "history",
		Difficulty:         "medium",
		Explanation:        "The wall fell on 9 November 1989.",
	},
	{
		Question:           "What gas do plants primarily absorb for photosynthesis?",
		Options:            []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"},
		CorrectAnswerIndex: 2,
		Category:           "science",
		Difficulty:         "easy",
		Explanation:        "Plants convert carbon dioxide and water into glucose and oxygen.",
	},
	{
		Question:           "Which composer wrote the Ninth Symphony while almost completely deaf?",
		Options:            []string{"Mozart", "Bach", "Beethoven", "Brahms"},
		CorrectAnswerIndex: 2,
		Category:           "music",
		Difficulty:         "medium",
		Explanation:        "Beethoven premiered the Ninth in 1824, late in his hearing loss.",
	},
	{
		Question:           "What is the capital of Australia?",
		Options:            []string{"Sydney", "Melbourne", "Canberra", "Perth"},
		CorrectAnswerIndex: 2,
		Category:           "geography",
		Difficulty:         "medium",
		Explanation:        "Canberra was purpose-built as the capital in 1913.",
	},
	{
		Question:           "How many bits are in a byte?",
		Options:            []string{"4", "8", "16", "32"},
		CorrectAnswerIndex: 1,
		Category:           "technology",
		Difficulty:         "easy",
		Explanation:        "A byte is eight bits on effectively all modern hardware.",
	},
	{
		Question:           "Which element has the atomic number 1?",
		Options:            []string{"Helium", "Hydrogen", "Lithium", "Oxygen"},
		CorrectAnswerIndex: 1,
		Category:           "science",
		Difficulty:         "easy",
		Explanation:        "Hydrogen has a single proton.",
	},
	{
		Question:           "Who wrote the novel 1984?",
		Options:            []string{"Aldous Huxley", "George Orwell", "Ray Bradbury", "J.R.R. Tolkien"},
		CorrectAnswerIndex: 1,
		Category:           "literature",
		Difficulty:         "easy",
		Explanation:        "George Orwell published 1984 in 1949.",
	},
}

// FallbackSet returns count questions from the built-in bank, cycling if the
// bank is smaller than the request.
func FallbackSet(count int) []models.Question {
	set := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		set = append(set, fallbackBank[i%len(fallbackBank)])
	}
	return set
}
