package services

import (
	"math"
	"sort"
	"strings"

	"alfredoptarigan/resume-extractor/internal/models"
)

const DefaultTopK = 10

type termVector map[string]float64

// RankTFIDF scores every resume against jdText by cosine similarity of TF-IDF
// vectors. IDF is computed over the job description plus all resumes. Results
// are ordered by score, ties broken by resume ID, and cut to topK (DefaultTopK
// when topK <= 0).
func RankTFIDF(jdText string, resumes map[string]string, topK int) []models.RankedResume {
	if topK <= 0 {
		topK = DefaultTopK
	}

	ids := make([]string, 0, len(resumes))
	for id := range resumes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([][]string, 0, len(ids)+1)
	docs = append(docs, tokenize(jdText))
	for _, id := range ids {
		docs = append(docs, tokenize(resumes[id]))
	}

	idf := inverseDocumentFrequency(docs)
	jdVector := tfidfVector(docs[0], idf)

	ranked := make([]models.RankedResume, 0, len(ids))
	for i, id := range ids {
		ranked = append(ranked, models.RankedResume{
			ResumeID: id,
			Score:    cosineSimilarity(jdVector, tfidfVector(docs[i+1], idf)),
		})
	}

	return rankResults(ranked, topK)
}

// rankResults sorts by score descending, truncates and assigns ranks from 1.
func rankResults(results []models.RankedResume, topK int) []models.RankedResume {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ResumeID < results[j].ResumeID
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

func termFrequency(words []string) termVector {
	tf := termVector{}
	if len(words) == 0 {
		return tf
	}
	for _, w := range words {
		tf[w]++
	}
	for w := range tf {
		tf[w] /= float64(len(words))
	}
	return tf
}

func inverseDocumentFrequency(docs [][]string) termVector {
	df := map[string]int{}
	for _, doc := range docs {
		seen := map[string]bool{}
		for _, w := range doc {
			if !seen[w] {
				seen[w] = true
				df[w]++
			}
		}
	}

	idf := termVector{}
	n := float64(len(docs))
	for w, count := range df {
		idf[w] = math.Log(n / float64(count))
	}
	return idf
}

func tfidfVector(words []string, idf termVector) termVector {
	vector := termFrequency(words)
	for w, tf := range vector {
		vector[w] = tf * idf[w]
	}
	return vector
}

func cosineSimilarity(a, b termVector) float64 {
	var dot, normA, normB float64
	for w, va := range a {
		normA += va * va
		if vb, ok := b[w]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
