package profile

// Profile captures the tractor listing shown on a swipe card.
type Profile struct {
	ID               int      `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Age              int      `json:"age" yaml:"age"`
	Bio              string   `json:"bio" yaml:"bio"`
	Images           []string `json:"images" yaml:"images"`
	Make             string   `json:"make" yaml:"make"`
	Model            string   `json:"model" yaml:"model"`
	ResponseMessages []string `json:"responseMessages" yaml:"responseMessages"` // 匹配后对方的预设回复
}

// Image returns the cover image, the first entry of Images.
func (p Profile) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// UploadedImages is the pool of static card images shipped with the frontend.
var UploadedImages = []string{
	"/lovable-uploads/162183d8-145d-44cf-97e8-68d40f7d43b5.png",
	"/lovable-uploads/26755a37-8b7f-4499-86b8-7692c579c81c.png",
}

// DiagnosticProfileID identifies the diagnostic card placed in front of the catalog.
const DiagnosticProfileID = 999

// DiagnosticProfile is always rendered so an empty or broken catalog is noticed quickly.
func DiagnosticProfile() Profile {
	return Profile{
		ID:               DiagnosticProfileID,
		Name:             "Test Tractor 9000",
		Age:              25,
		Bio:              "Testing rendering logic only.",
		Images:           append([]string(nil), UploadedImages...),
		Make:             "Test",
		Model:            "9000",
		ResponseMessages: []string{"This is a test tractor for rendering verification."},
	}
}

// Seed provides the default tractor catalog.
func Seed() []Profile {
	return []Profile{
		{
			ID:    1,
			Name:  "Big Green Betty",
			Age:   12,
			Bio:   "Loves long days in the cornfield and the smell of fresh diesel. Looking for someone who can keep up at harvest.",
			Make:  "John Deere",
			Model: "8R 410",
			ResponseMessages: []string{
				"Hey there! Nothing runs like a Deere, but you might come close 😉",
				"I've been plowing all day, ready to kick back?",
				"Do you like long drives down dirt roads?",
			},
		},
		{
			ID:    2,
			Name:  "Rusty Red",
			Age:   34,
			Bio:   "Vintage and proud. A little rust never stopped me from pulling my weight.",
			Make:  "Farmall",
			Model: "Super M",
			ResponseMessages: []string{
				"They don't make 'em like me anymore, sweetheart.",
				"Sorry, I'm so sad my carburetor acted up again.",
				"Care for a slow ride around the barn?",
			},
		},
		{
			ID:    3,
			Name:  "Kubo",
			Age:   5,
			Bio:   "Compact, efficient and surprisingly strong. Small farm, big heart.",
			Make:  "Kubota",
			Model: "L3901",
			ResponseMessages: []string{
				"Small but mighty! What are you hauling this weekend?",
				"Wow, you made my hydraulics flutter!",
				"Let's take it easy and mow a meadow together.",
			},
		},
		{
			ID:    4,
			Name:  "Maxine",
			Age:   8,
			Bio:   "Red all over and proud of it. Into precision farming and GPS-guided sunsets.",
			Make:  "Case IH",
			Model: "Magnum 340",
			ResponseMessages: []string{
				"My autosteer says we're heading in the right direction.",
				"Haha, you're funny! Tell me more about your implements.",
				"Important question: tracks or tires?",
			},
		},
		{
			ID:    5,
			Name:  "Blue Thunder",
			Age:   15,
			Bio:   "Strong torque, gentle soul. Happiest when hauling hay bales for a good cause.",
			Make:  "New Holland",
			Model: "T7.315",
			ResponseMessages: []string{
				"Thanks for the match! Want to hear my engine purr?",
				"Don't worry, I always let you pick the radio station.",
				"I love a good hay day. You?",
			},
		},
		{
			ID:    6,
			Name:  "Fergie",
			Age:   70,
			Bio:   "Grey, classic, and still starting on the first crank. Wisdom comes with age.",
			Make:  "Massey Ferguson",
			Model: "TE20",
			ResponseMessages: []string{
				"Back in my day we courted with a three-point hitch.",
				"Calm down, youngster, good things take time.",
				"Seriously though, keep your oil changed.",
			},
		},
	}
}
