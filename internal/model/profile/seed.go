package profile

// Seed returns the built-in candidate record used when no PROFILE_PATH is configured.
func Seed() *Profile {
	return &Profile{
		Name:        "Joseph Fajen",
		Title:       "Senior Technical Writer",
		Subtitle:    "API documentation, blockchain technologies, and docs-as-code workflows",
		Location:    "Portland, OR",
		Status:      "Open to Senior Technical Writer roles",
		Positioning: "A technical writer who builds documentation tooling and works directly with engineers, not a developer who writes.",
		Companies:   []string{"IOHK", "AJA Video Systems", "Ensemble Designs"},
		Summary: `20+ years transforming complex technical concepts into user-friendly documentation.
Expert at building relationships with developers and product teams.
I prefer documentation challenges that require deep technical understanding and cross-functional collaboration.`,
		FeaturedProject: FeaturedProject{
			Name:        "Essential Cardano AI Assistant Chatbot",
			Description: "Production AI assistant answering questions over the Cardano documentation corpus.",
			Role:        "Sole builder, from extraction pipeline to deployed web UI",
			TechnicalStack: []string{
				"Next.js", "Railway", "Document extraction pipeline", "LLM prompt engineering",
			},
			Highlights: []string{
				"Extracted and processed 2,500 documents from 8 different sources",
				"Deployed a Next.js web UI with streaming, conversation persistence, and dark mode",
				"Iterated through 20+ system prompt versions to reach zero detectable hallucination",
				"Managed the full project lifecycle solo across 91 repository commits",
			},
			Why: "Shows he can take an AI application from idea to production on his own, while staying honest that it is one project rather than years of ML expertise.",
		},
		Experience: []Experience{
			{
				Company: "IOHK",
				Role:    "Senior Technical Writer",
				Period:  "2022–Present",
				Highlights: []string{
					"Built Essential Cardano AI Assistant Chatbot end-to-end — 2,500 documents, zero hallucination",
					"Created unified documentation site for Marlowe smart contract project using Docusaurus",
					"Led comprehensive reorganization of Plutus documentation, migrating from Read the Docs to Docusaurus",
				},
				Context: AIContext{
					Situation:      "Cardano blockchain documentation was fragmented across multiple repositories with inconsistent formats and outdated content.",
					Approach:       "Consolidated documentation into unified sites, implemented docs-as-code workflows, and coordinated across development, web, communications, and design teams.",
					TechnicalWork:  "Built production AI chatbot with Next.js, created extraction pipeline for 2,500 documents from 8 sources, deployed on Railway infrastructure. Designed Docusaurus-based documentation sites with improved information architecture.",
					LessonsLearned: "Documentation unification is as much about stakeholder alignment as it is about content. Getting buy-in from multiple teams early prevents rework later.",
				},
			},
			{
				Company: "AJA Video Systems",
				Role:    "Senior Technical Writer",
				Period:  "2016–2022",
				Highlights: []string{
					"Created manuals for Bridge Live and Bridge NDI 3G flagship video products",
					"Developed first comprehensive REST API documentation from fragmented sources",
					"Improved document review process with structured Adobe Acrobat workflows",
				},
				Context: AIContext{
					Situation:      "Complex multi-channel video systems and HD/4K conversion gateways needed clear documentation. REST API information was scattered and undocumented.",
					Approach:       "Proactively identified documentation gaps through inquiry, collaborated with engineering teams across multiple locations, and advocated for proper tooling.",
					TechnicalWork:  "Documented video signal processing products, created API reference documentation, produced manuals using Adobe Creative Suite for specialized modular video products.",
					LessonsLearned: "The best documentation comes from asking the right questions. Engineers often don't realize what's undocumented until you start probing.",
				},
			},
			{
				Company: "Ensemble Designs & Consulting",
				Role:    "Contract Sr. Technical Writer",
				Period:  "2008–2015",
				Highlights: []string{
					"Created manuals and guides for video signal processing products",
					"Served clients including HP and Big Sky Communications",
					"Built expertise in hardware and software documentation",
				},
				Context: AIContext{
					Situation:      "Various clients needed technical documentation for specialized video and technology products.",
					Approach:       "Adapted quickly to different product domains, established efficient client relationships, and delivered quality documentation independently.",
					TechnicalWork:  "Hardware documentation, online help systems, API/SDK documentation, and deployment guides across multiple technology domains.",
					LessonsLearned: "Contract work teaches you to ramp up quickly on new domains. Every product has its own logic once you find the right people to explain it.",
				},
			},
		},
		Skills: Skills{
			Strong: []string{
				"API & Developer Documentation",
				"Docs-as-Code Workflows",
				"Docusaurus & Documentation Platforms",
				"Cross-functional Team Collaboration",
				"Technical Interview & Information Gathering",
				"Content Strategy & Information Architecture",
			},
			Moderate: []string{
				"JavaScript & Python",
				"Blockchain Technologies",
				"Video Signal Processing",
				"AI/LLM Application Development",
			},
			Gaps: []string{
				"Deep Software Engineering",
				"DevOps & Infrastructure",
				"Product Management",
			},
		},
		Failures: []Failure{
			{
				Year:    2023,
				Title:   "The Documentation Migration That Stalled",
				Summary: "Led a documentation migration that hit unexpected organizational resistance.",
				Details: "I underestimated how attached teams were to their existing documentation locations. Even with a better unified structure, getting everyone to update their links and workflows took longer than the technical migration itself.",
				Lessons: "Technical improvements need social buy-in. Spend more time upfront getting stakeholder commitment before starting migrations.",
			},
			{
				Year:    2019,
				Title:   "The Over-Detailed API Reference",
				Summary: "Created comprehensive API documentation that overwhelmed users.",
				Details: "I documented every edge case and parameter variation so thoroughly that developers couldn't find the basic getting-started information they needed.",
				Lessons: "Good documentation has layers. Lead with the common cases, put edge cases in expandable sections or appendices.",
			},
		},
		Suggestions: []string{
			"Tell me about the AI chatbot you built — what was the technical approach?",
			"Is this person technical enough to work directly with engineers?",
			"What's the difference between a technical writer and a documentation lead?",
			"Tell me about a failure and what you learned from it.",
		},
		Answers: seedAnswers(),
	}
}

func seedAnswers() Answers {
	return Answers{
		AIProject: `Joseph's AI experience is recent but substantial. At IOHK, he built the Essential Cardano AI Assistant Chatbot end-to-end:

• Extracted and processed 2,500 documents from 8 different sources
• Built a complete extraction pipeline
• Deployed a Next.js web UI with streaming, conversation persistence, and dark mode
• Iterated through 20+ system prompt versions to achieve zero detectable hallucination
• Managed the full project lifecycle solo — 91 repository commits

This demonstrates he can build production AI applications, but it's one project, not years of ML/AI expertise. He's a technical writer who learned to build AI tools, not an AI engineer who writes documentation.`,

		TechnicalDepth: `Yes, for the kind of work a senior technical writer does with engineers.

Joseph reads code, works in Git and GitHub daily, writes JavaScript and Python for documentation tooling, and built a production AI chatbot on his own. At AJA Video Systems he produced the first comprehensive REST API reference by working directly with engineers across several locations.

Where to calibrate: he is a technical writer who codes, not a software engineer. He collaborates with engineers rather than replacing them, and deep software engineering, DevOps, and infrastructure are listed gaps. If the role needs someone to architect production systems, that's not his background.`,

		Failure: `Joseph has documented two failures honestly.

In 2023 he led a documentation migration that stalled. He underestimated how attached teams were to their existing documentation locations; even with a better unified structure, getting everyone to update links and workflows took longer than the technical migration itself. The lesson he took: technical improvements need social buy-in, so secure stakeholder commitment before starting a migration.

In 2019 he wrote an API reference so thorough that developers couldn't find the getting-started information they needed. The lesson: good documentation has layers. Lead with the common cases and move edge cases into expandable sections or appendices.`,

		LeadershipReady: `The difference is ownership beyond the page. A technical writer delivers accurate content for a product; a documentation lead sets structure, tooling, and process across teams and gets people to adopt them.

Joseph has done the lead side of that work. At IOHK he led the reorganization of the Plutus documentation from Read the Docs to Docusaurus and built a unified site for the Marlowe project, coordinating development, web, communications, and design teams. His stalled 2023 migration also taught him that the hard part of leading documentation is stakeholder alignment, not the technical move.

What he hasn't done is own product roadmaps or metrics, so a role that blends documentation leadership with product management would stretch him.`,

		Default: `Based on Joseph's background, let me give you a specific assessment.

Joseph has 20+ years of technical writing experience, with particular depth in API documentation and docs-as-code workflows. His recent work at IOHK is notable — he built a production AI chatbot for Cardano blockchain documentation, handling 2,500 documents from 8 sources with zero detectable hallucination.

What distinguishes him:
• He builds relationships with engineering teams to get accurate technical information
• He's hands-on with tools — Docusaurus, Git, JavaScript, Python
• He's led documentation reorganization projects across multiple stakeholders

If you're looking for someone who can own developer documentation and work independently with engineering teams, he's a strong fit. If you need someone with deep software engineering skills or product management experience, that's not his background.

What else would you like to know about his experience?`,
	}
}
