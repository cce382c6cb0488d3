package llm

import (
	"fmt"
)

// BuildTransformationPrompt creates the prompt that rewrites a whole résumé for a job.
func BuildTransformationPrompt(resumeText, jobDescription string) (prompt string) {
	prompt = fmt.Sprintf(`Transform the following resume content to perfectly match this job description.

BASE RESUME:
%s

TARGET JOB DESCRIPTION:
%s

Create a completely tailored resume that:
1. Matches the exact skills and qualifications mentioned in the job post
2. Rewords experiences to highlight relevant achievements
3. Prioritizes information based on job requirements
4. Uses industry-specific terminology from the job description
5. Maintains professional tone and formatting

Important requirements:
- Preserve truthful information from the original resume
- Include all relevant experience from the original resume
- Format in clear, ATS-friendly markdown
- Use strong action verbs and quantifiable achievements
- Maintain professional formatting

Use a level-one markdown header (# Name) for every section, for example # Summary, # Experience,
# Skills, # Education.

Generate the complete resume in markdown format.`, resumeText, jobDescription)

	return prompt
}

// BuildExperiencePrompt creates the prompt that rewrites the experience entries of a résumé.
func BuildExperiencePrompt(experienceEntries, requirements string) (prompt string) {
	prompt = fmt.Sprintf(`Rewrite these experience entries to align with the target job requirements:

ORIGINAL EXPERIENCE:
%s

JOB REQUIREMENTS:
%s

For each entry:
1. Emphasize relevant skills and achievements
2. Use terminology from the job description
3. Quantify impacts where possible
4. Start with strong action verbs
5. Maintain factual accuracy

Return only the tailored experience entries in markdown format, without a section header.`, experienceEntries, requirements)

	return prompt
}

// BuildAnalysisPrompt creates the prompt that reviews a résumé against a job without rewriting it.
func BuildAnalysisPrompt(resumeText, jobDescription string) (prompt string) {
	prompt = fmt.Sprintf(`You are an experienced recruiter reviewing a resume against a job description.

RESUME:
%s

JOB DESCRIPTION:
%s

Write optimization suggestions in markdown with these sections:

# Keyword Alignment
Keywords and skills from the job description that the resume covers, and the ones it is missing.

# Experience Relevance
Which experience entries are most relevant, and how each could be reworded to show it.

# ATS Improvements
Concrete formatting and wording changes that help applicant tracking systems parse the resume.

# Summary
The three most important changes to make first.

Do not invent experience the candidate does not have.`, resumeText, jobDescription)

	return prompt
}
