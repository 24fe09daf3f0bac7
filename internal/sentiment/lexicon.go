package sentiment

// lexicon maps lowercased words to polarity scores in [-1, 1]. The list is
// tuned for the vocabulary of field-research responses: product and service
// feedback, interview answers, open survey text.
var lexicon = map[string]float64{
	// positive
	"good": 0.7, "great": 0.9, "excellent": 1.0, "amazing": 0.9,
	"awesome": 0.9, "fantastic": 0.9, "wonderful": 0.9, "perfect": 1.0,
	"love": 0.9, "loved": 0.9, "like": 0.5, "liked": 0.5,
	"enjoy": 0.7, "enjoyed": 0.7, "happy": 0.8, "glad": 0.6,
	"satisfied": 0.7, "pleased": 0.7, "pleasant": 0.7, "delighted": 0.9,
	"helpful": 0.7, "useful": 0.7, "valuable": 0.6, "convenient": 0.6,
	"easy": 0.6, "simple": 0.4, "clear": 0.5, "intuitive": 0.6,
	"friendly": 0.6, "reliable": 0.6, "fast": 0.5, "quick": 0.4,
	"smooth": 0.6, "impressive": 0.8, "best": 0.9, "better": 0.5,
	"improved": 0.6, "improvement": 0.5, "recommend": 0.6, "works": 0.3,
	"fine": 0.3, "ok": 0.2, "okay": 0.2, "decent": 0.3,
	"excited": 0.7, "fun": 0.6, "comfortable": 0.5, "trust": 0.5,

	// negative
	"bad": -0.7, "terrible": -1.0, "awful": -0.9, "horrible": -0.9,
	"worst": -1.0, "worse": -0.6, "poor": -0.7, "hate": -0.9,
	"hated": -0.9, "dislike": -0.6, "disappointed": -0.7,
	"disappointing": -0.7, "frustrating": -0.8, "frustrated": -0.8,
	"annoying": -0.6, "annoyed": -0.6, "confusing": -0.6, "confused": -0.5,
	"difficult": -0.5, "hard": -0.4, "complicated": -0.5, "unclear": -0.5,
	"slow": -0.5, "broken": -0.7, "useless": -0.8, "unreliable": -0.6,
	"problem": -0.4, "problems": -0.4, "issue": -0.3, "issues": -0.3,
	"bug": -0.4, "bugs": -0.4, "crash": -0.6, "crashes": -0.6,
	"fail": -0.6, "failed": -0.6, "fails": -0.6, "error": -0.4,
	"unhappy": -0.7, "upset": -0.6, "angry": -0.7, "sad": -0.6,
	"waste": -0.7, "wasted": -0.7, "expensive": -0.4, "missing": -0.4,
	"lacking": -0.5, "painful": -0.6, "worried": -0.5, "scary": -0.5,
	"afraid": -0.5, "boring": -0.5, "wrong": -0.5, "never": -0.2,
}

// negators flip the sign of the next lexicon match within the lookback
// window.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "nothing": {}, "hardly": {},
	"cannot": {}, "cant": {}, "can't": {}, "dont": {}, "don't": {},
	"doesnt": {}, "doesn't": {}, "didnt": {}, "didn't": {},
	"isnt": {}, "isn't": {}, "wasnt": {}, "wasn't": {},
	"wont": {}, "won't": {}, "wouldnt": {}, "wouldn't": {},
	"neither": {}, "nor": {}, "barely": {},
}

// intensifiers scale the score of the next lexicon match.
var intensifiers = map[string]float64{
	"very": 1.5, "really": 1.5, "extremely": 2.0, "incredibly": 2.0,
	"absolutely": 1.8, "totally": 1.6, "so": 1.3, "quite": 1.2,
	"pretty": 1.2, "somewhat": 0.7, "slightly": 0.5, "fairly": 0.9,
	"barely": 0.4, "almost": 0.8,
}

// Emotion labels form a fixed closed set. emotionOrder breaks ties
// deterministically when counts are equal.
const (
	EmotionJoy      = "joy"
	EmotionSadness  = "sadness"
	EmotionAnger    = "anger"
	EmotionFear     = "fear"
	EmotionSurprise = "surprise"
	EmotionNeutral  = "neutral"
)

var emotionOrder = []string{
	EmotionJoy, EmotionSadness, EmotionAnger, EmotionFear, EmotionSurprise,
}

var emotionWords = map[string]string{
	"happy": EmotionJoy, "love": EmotionJoy, "loved": EmotionJoy,
	"enjoy": EmotionJoy, "enjoyed": EmotionJoy, "delighted": EmotionJoy,
	"excited": EmotionJoy, "glad": EmotionJoy, "fun": EmotionJoy,
	"wonderful": EmotionJoy, "great": EmotionJoy, "amazing": EmotionJoy,

	"sad": EmotionSadness, "disappointed": EmotionSadness,
	"disappointing": EmotionSadness, "unhappy": EmotionSadness,
	"sorry": EmotionSadness, "regret": EmotionSadness,
	"miss": EmotionSadness, "upset": EmotionSadness,

	"angry": EmotionAnger, "frustrating": EmotionAnger,
	"frustrated": EmotionAnger, "annoying": EmotionAnger,
	"annoyed": EmotionAnger, "hate": EmotionAnger,
	"hated": EmotionAnger, "furious": EmotionAnger, "mad": EmotionAnger,

	"afraid": EmotionFear, "worried": EmotionFear, "scared": EmotionFear,
	"scary": EmotionFear, "anxious": EmotionFear, "nervous": EmotionFear,
	"concern": EmotionFear, "concerned": EmotionFear, "fear": EmotionFear,

	"surprised": EmotionSurprise, "surprising": EmotionSurprise,
	"unexpected": EmotionSurprise, "shocked": EmotionSurprise,
	"sudden": EmotionSurprise, "amazed": EmotionSurprise, "wow": EmotionSurprise,
}
