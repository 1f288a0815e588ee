package llm

const systemPrompt = "You describe how Wikidata entities are connected. Answer only from the facts you are given."
