package ai

// planInstruction opens every plan prompt.
const planInstruction = `Create a concise, actionable plan for these goals. For each goal, include: objective, weekly milestones, recommended workouts/practices, and how to track progress. Keep it friendly and specific.
`

const notProvided = "not provided"
