package sentiment

// Baseline training corpus. Small on purpose: the analyzer is a coarse first pass,
// ratings and explicit labels take precedence wherever reviews carry them.
var positiveCorpus = []string{
	"This product is amazing and works perfectly",
	"Great quality, highly recommend",
	"Love it, best purchase ever",
	"Excellent value for money",
	"Very satisfied with this product",
	"Works as expected, great buy",
	"Fantastic product, will buy again",
	"Super happy with my purchase",
	"Outstanding quality and fast delivery",
	"Perfect, exactly what I needed",
	"The quality is superb and delivery was fast",
	"Absolutely love this, exceeded expectations",
	"Best product I have ever bought",
	"Amazing features and easy to use",
	"Highly recommended for everyone",
}

var negativeCorpus = []string{
	"Terrible product, waste of money",
	"Very disappointed with the quality",
	"Does not work as advertised",
	"Broke after one week of use",
	"Worst purchase ever, do not buy",
	"Poor quality and bad customer service",
	"Not worth the price at all",
	"Completely useless product",
	"Very bad experience, returning it",
	"Cheap material, breaks easily",
	"Disappointed with this purchase",
	"Product arrived damaged and broken",
	"Horrible quality, do not recommend",
	"Waste of money, very poor quality",
	"Bad product, stopped working quickly",
}

// englishStopWords are dropped before n-grams are built.
var englishStopWords = toSet(
	"a", "about", "above", "across", "after", "afterwards", "again", "against", "all", "almost",
	"alone", "along", "already", "also", "although", "always", "am", "among", "amongst", "an",
	"and", "another", "any", "anyhow", "anyone", "anything", "anyway", "anywhere", "are", "around",
	"as", "at", "back", "be", "became", "because", "become", "becomes", "been", "before",
	"beforehand", "behind", "being", "below", "beside", "besides", "between", "beyond", "both",
	"but", "by", "can", "cannot", "could", "did", "do", "does", "done", "down", "due", "during",
	"each", "eg", "either", "else", "elsewhere", "enough", "etc", "even", "ever", "every",
	"everyone", "everything", "everywhere", "except", "few", "first", "for", "former", "formerly",
	"from", "further", "get", "give", "go", "had", "has", "have", "he", "hence", "her", "here",
	"hereafter", "hereby", "herein", "hers", "herself", "him", "himself", "his", "how", "however",
	"ie", "if", "in", "indeed", "into", "is", "it", "its", "itself", "just", "keep", "last",
	"latter", "least", "less", "made", "many", "may", "me", "meanwhile", "might", "mine", "more",
	"moreover", "most", "mostly", "much", "must", "my", "myself", "namely", "neither", "never",
	"nevertheless", "next", "no", "nobody", "none", "noone", "nor", "not", "nothing", "now",
	"nowhere", "of", "off", "often", "on", "once", "one", "only", "onto", "or", "other", "others",
	"otherwise", "our", "ours", "ourselves", "out", "over", "own", "part", "per", "perhaps",
	"please", "put", "rather", "re", "same", "see", "seem", "seemed", "seeming", "seems",
	"several", "she", "should", "since", "so", "some", "somehow", "someone", "something",
	"sometime", "sometimes", "somewhere", "still", "such", "than", "that", "the", "their",
	"them", "themselves", "then", "there", "thereafter", "thereby", "therefore", "therein",
	"these", "they", "this", "those", "though", "through", "throughout", "thru", "thus", "to",
	"together", "too", "toward", "towards", "under", "until", "up", "upon", "us", "very", "via",
	"was", "we", "well", "were", "what", "whatever", "when", "whence", "whenever", "where",
	"whereafter", "whereas", "whereby", "wherein", "whereupon", "wherever", "whether", "which",
	"while", "whither", "who", "whoever", "whole", "whom", "whose", "why", "will", "with",
	"within", "without", "would", "yet", "you", "your", "yours", "yourself", "yourselves",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
