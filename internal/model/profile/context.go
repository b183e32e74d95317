package profile

import (
	"fmt"
	"strings"
)

// BuildContext serializes the profile into the profile_context string sent with
// every chat request. Output is deterministic and never truncated.
func BuildContext(p *Profile) string {
	if p == nil {
		return ""
	}

	var b strings.Builder
	fp := p.FeaturedProject

	fmt.Fprintf(&b, "\nNAME: %s\n", p.Name)
	fmt.Fprintf(&b, "POSITIONING: %s\n", p.Positioning)
	fmt.Fprintf(&b, "STATUS: %s\n\n", p.Status)

	b.WriteString("FEATURED PROJECT (lead with this - it's a key differentiator):\n")
	fmt.Fprintf(&b, "%s - %s\n", fp.Name, fp.Description)
	fmt.Fprintf(&b, "Role: %s\n", fp.Role)
	fmt.Fprintf(&b, "Technical stack: %s\n", strings.Join(fp.TechnicalStack, ", "))
	b.WriteString("Key accomplishments:\n")
	for _, h := range fp.Highlights {
		fmt.Fprintf(&b, "  • %s\n", h)
	}
	fmt.Fprintf(&b, "Why this matters: %s\n\n", fp.Why)

	fmt.Fprintf(&b, "SUMMARY:\n%s\n\n", p.Summary)

	b.WriteString("EXPERIENCE:\n")
	for _, exp := range p.Experience {
		fmt.Fprintf(&b, "\n%s (%s): %s\n", exp.Company, exp.Period, exp.Role)
		fmt.Fprintf(&b, "Highlights: %s\n", strings.Join(exp.Highlights, "; "))
		fmt.Fprintf(&b, "Situation: %s\n", exp.Context.Situation)
		fmt.Fprintf(&b, "Approach: %s\n", exp.Context.Approach)
		fmt.Fprintf(&b, "Technical work: %s\n", exp.Context.TechnicalWork)
		fmt.Fprintf(&b, "Lessons learned: %s\n", exp.Context.LessonsLearned)
	}

	b.WriteString("\nSKILLS:\n")
	fmt.Fprintf(&b, "Strong: %s\n", strings.Join(p.Skills.Strong, ", "))
	fmt.Fprintf(&b, "Moderate: %s\n", strings.Join(p.Skills.Moderate, ", "))
	fmt.Fprintf(&b, "Gaps (be honest about these): %s\n\n", strings.Join(p.Skills.Gaps, ", "))

	b.WriteString("DOCUMENTED FAILURES (share these honestly when relevant):\n")
	for i, f := range p.Failures {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %d: %s\n", f.Year, f.Title)
		fmt.Fprintf(&b, "  What happened: %s\n", f.Details)
		fmt.Fprintf(&b, "  Lesson: %s", f.Lessons)
	}
	b.WriteString("\n")

	return b.String()
}
