package faq

// Entries is the built-in FAQ content, in display order.
// Answers are Markdown; links are relative to the site root.
var Entries = []Entry{
	{
		ID:       "book-consultation",
		Question: "I Want to Book a Consultation",
		Category: CategoryGettingStarted,
		Answer: `To book a consultation:

**1. Choose your session type** — 30-minute (Quick Clarity), 60-minute (Deep Insight) or 90-minute (Holistic Guidance), each available as audio or video.

**2. Prepare your birth details** — exact date of birth, precise time of birth, and place of birth.

**3. Book online** — visit the [booking page](/intake), select your preferred session, share your birth details and complete payment. Payment is required in advance to confirm the appointment.

Consultations are conducted online. Rescheduling is possible with 48 hours' notice. Sessions are confidential.`,
	},
	{
		ID:       "choose-service",
		Question: "Help Me Choose the Right Service",
		Category: CategoryGettingStarted,
		Answer: `Consultations cover career, relationships, health, finances, family, life transitions, personal growth, karmic patterns, or an open session for questions that don't fit a category.

**Session length:** a 30-minute session suits one primary concern, 60 minutes covers up to three related themes, 90 minutes allows multiple life areas.

If you're unsure, start with a 60-minute session or an Open Session. You can always book follow-ups as needed.`,
	},
	{
		ID:       "birth-details",
		Question: "What details do I need to give for a reading?",
		Category: CategoryGettingStarted,
		Answer: `Three essential details: **date of birth**, **time of birth** (as precise as possible — even a 10-15 minute difference can shift key indicators), and **place of birth** (city and state/country).

If you don't have your exact birth time, check birth certificates, hospital records, or ask family members who were present.`,
	},
	{
		ID:       "career",
		Question: "I have a career issue",
		Category: CategoryLifeSituation,
		Answer: `Career consultations provide clarity on work decisions, career transitions, and periods of stagnation or burnout — timing for changes, when effort yields results versus meets obstacles, and whether your current direction aligns with your chart's natural momentum.`,
	},
	{
		ID:       "relationships",
		Question: "I have a relationships issue",
		Category: CategoryLifeSituation,
		Answer: `Relationship consultations focus on emotional patterns that repeat, compatibility dynamics, timing for commitment or transitions, and where friction is likely — helping you see patterns clearly before committing.`,
	},
	{
		ID:       "stuck",
		Question: "I'm stuck despite effort",
		Category: CategoryLifeSituation,
		Answer: `When hard work and planning exist yet progress feels blocked, it often indicates a timing or pattern issue. A consultation can clarify why effort isn't yielding results, what phase you're in and how long it's likely to last, and which responses support progress rather than resistance.`,
	},
	{
		ID:       "vedic-vs-western",
		Question: "How is Vedic astrology different from Western astrology?",
		Category: CategoryUnderstanding,
		Answer: `Vedic astrology examines long-term karmic patterns and life timing using the sidereal zodiac; Western astrology focuses more on psychological traits and current transits using the tropical zodiac. The deeper difference: Western asks "what is happening right now?", Vedic asks "why does this keep happening?"`,
	},
	{
		ID:       "religious",
		Question: "Is this religious?",
		Category: CategoryUnderstanding,
		Answer: `No. While it emerged from Hindu philosophical traditions, Vedic astrology functions as a technical system for understanding patterns and timing. You don't need to adopt any belief system — the consultation focuses on observable patterns in your life.`,
	},
	{
		ID:       "unknown-birth-time",
		Question: "What if my birth time is unknown?",
		Category: CategoryPractical,
		Answer: `If your birth time is completely unknown, some techniques become unavailable. With an approximate time (morning, afternoon, evening) we can work within that range. It's better to be honest about uncertainty than to guess — inaccurate data produces unreliable readings.`,
	},
	{
		ID:       "session-frequency",
		Question: "How often should I consult?",
		Category: CategoryPractical,
		Answer: `There is no fixed frequency. Some people consult during major transitions; others return periodically to understand how longer cycles are unfolding. Appropriate follow-up timing is usually discussed at the end of your session.`,
	},
	{
		ID:       "browse-all",
		Question: "Browse All FAQs",
		Category: CategoryMoreHelp,
		Answer:   `For a complete list of frequently asked questions, visit the [FAQ page](/faq). It contains detailed answers about consultations, pricing, and more.`,
	},
}
