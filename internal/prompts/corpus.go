package prompts

var shortPrompts = []string{
	"Explain the concept of artificial intelligence step by step.",
	"Summarize the causes of the French Revolution in a few sentences.",
	"Write a short poem about the ocean at night.",
	"What are the main differences between TCP and UDP?",
	"Describe how photosynthesis works to a ten year old.",
	"List five tips for writing readable code.",
	"How does a hash table handle collisions?",
	"Give a brief overview of the history of the printing press.",
	"What is the difference between weather and climate?",
	"Explain why the sky appears blue during the day.",
	"Write a haiku about autumn leaves.",
	"Describe the water cycle in simple terms.",
	"What are the benefits of regular exercise?",
	"Explain recursion with a simple example.",
	"Compare renewable and non-renewable energy sources.",
}

var longContextPairs = []Pair{
	{
		Context: "The Industrial Revolution began in Great Britain in the late eighteenth century and spread to " +
			"continental Europe and North America over the following decades. It marked a shift from hand " +
			"production methods to machines, new chemical manufacturing and iron production processes, the " +
			"increasing use of steam power and water power, and the rise of the mechanised factory system. " +
			"Textiles were the dominant industry in terms of employment, value of output and capital invested. " +
			"The period also saw profound social change: rapid urbanisation, the growth of a wage-earning working " +
			"class, and new debates about working conditions, child labour and public health. Historians continue " +
			"to argue about its exact start and end dates and about whether living standards improved or declined " +
			"for ordinary workers during the first half of the nineteenth century.",
		Prompt: "Based on the passage, what were the main economic and social effects of the Industrial Revolution?",
	},
	{
		Context: "A distributed consensus protocol allows a group of machines to agree on a sequence of values even " +
			"when some of them fail. Raft divides the problem into leader election, log replication and safety. " +
			"Servers start as followers; if a follower receives no heartbeat within an election timeout it becomes " +
			"a candidate, increments its term and requests votes. A candidate that wins votes from a majority " +
			"becomes leader and begins sending append entries messages that carry new log entries and act as " +
			"heartbeats. An entry is committed once it is stored on a majority of servers, and committed entries " +
			"are applied to each server's state machine in log order. The protocol guarantees that at most one " +
			"leader exists per term and that a leader's log contains every entry committed in earlier terms.",
		Prompt: "Using the description above, explain how Raft ensures that committed entries are never lost.",
	},
	{
		Context: "Coral reefs occupy less than one percent of the ocean floor yet support roughly a quarter of all " +
			"marine species. Reef-building corals live in symbiosis with photosynthetic algae called zooxanthellae, " +
			"which supply most of the coral's energy. When water temperatures rise even a degree or two above the " +
			"usual summer maximum for several weeks, corals expel their algae and turn white, a process known as " +
			"bleaching. Bleached corals are not dead, but they are starving and far more vulnerable to disease. " +
			"Repeated bleaching events leave little time for recovery. Other pressures include ocean acidification, " +
			"which slows skeleton growth, as well as overfishing, sediment runoff and coastal development.",
		Prompt: "According to the text, why is repeated coral bleaching especially damaging?",
	},
	{
		Context: "In software engineering, technical debt describes the implied cost of additional rework caused by " +
			"choosing an easy solution now instead of a better approach that would take longer. Like financial " +
			"debt, it accrues interest: every change made on top of a compromised design is harder than it would " +
			"otherwise be. Some debt is deliberate and prudent, taken on to meet a deadline with a plan to repay " +
			"it. Other debt is accidental, arising from changing requirements or from knowledge the team did not " +
			"have at the time. Teams manage debt by making it visible, tracking it alongside feature work, and " +
			"reserving capacity for refactoring, automated tests and dependency upgrades.",
		Prompt: "Summarize the passage and suggest two practical ways a team could reduce technical debt.",
	},
	{
		Context: "The human immune system has two broad branches. Innate immunity responds within minutes to hours " +
			"using physical barriers, inflammatory signals and cells such as neutrophils and macrophages that " +
			"recognise common features of pathogens. Adaptive immunity is slower to respond on first exposure but " +
			"highly specific: B cells produce antibodies that bind particular antigens, while T cells either help " +
			"coordinate the response or directly kill infected cells. After an infection is cleared, long-lived " +
			"memory cells remain, allowing a faster and stronger response if the same pathogen returns. Vaccines " +
			"exploit this memory by presenting harmless antigens so that the body is prepared in advance.",
		Prompt: "Explain, using the passage, how vaccines take advantage of adaptive immunity.",
	},
}
