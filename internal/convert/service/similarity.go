package service

// indelDistance is the minimum number of single-rune insertions and
// deletions turning a into b (Levenshtein without substitution).
func indelDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	al, bl := len(ra), len(rb)

	dp := make([][]int, al+1)
	for i := 0; i <= al; i++ {
		dp[i] = make([]int, bl+1)
	}
	for i := 0; i <= al; i++ {
		dp[i][0] = i
	}
	for j := 0; j <= bl; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= al; i++ {
		for j := 1; j <= bl; j++ {
			if ra[i-1] == rb[j-1] {
				dp[i][j] = dp[i-1][j-1]
			} else {
				dp[i][j] = min(dp[i-1][j], dp[i][j-1]) + 1
			}
		}
	}
	return dp[al][bl]
}

// ratio maps indel distance onto a similarity in [0..1]:
// 1 - d/(len(a)+len(b)). Symmetric; identical strings give 1,
// fully disjoint strings give 0.
func ratio(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la+lb == 0 {
		return 1
	}
	d := indelDistance(a, b)
	return 1 - float64(d)/float64(la+lb)
}
