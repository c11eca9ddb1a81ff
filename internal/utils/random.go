package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
)

var commonCourseNames = []string{
	"高等数学", "线性代数", "概率论", "离散数学", "大学物理",
	"数据结构", "操作系统", "计算机网络", "编译原理", "数据库系统",
	"程序设计", "软件工程", "人工智能", "机器学习", "数字电路",
	"大学英语", "体育", "思想政治", "信号与系统", "计算机组成原理",
}

// GenerateCourseCodeFromName 用课程名称的拼音首字母加上编号生成课程代码，例如 高等数学 -> GDSX101
func GenerateCourseCodeFromName(courseName string, number int) string {
	args := pinyin.NewArgs()
	args.Style = pinyin.FirstLetter

	code := ""
	for _, letters := range pinyin.LazyPinyin(courseName, args) {
		code += letters
	}

	return fmt.Sprintf("%s%03d", strings.ToUpper(code), number)
}

// GenerateRandomCourses 随机生成 n 个互不相同的课程代码
// 不同的课程名可能拼音首字母相同，因此按代码去重
func GenerateRandomCourses(rng *rand.Rand, n int) []string {
	// 可生成的课程代码有限
	n = min(n, len(commonCourseNames)*400)

	courses := make([]string, 0, n)
	seen := make(map[string]bool)

	for len(courses) < n {
		name := commonCourseNames[rng.Intn(len(commonCourseNames))]
		// 编号范围 100~499，与常见的课程编号保持一致
		code := GenerateCourseCodeFromName(name, rng.Intn(400)+100)
		if seen[code] {
			continue
		}
		seen[code] = true
		courses = append(courses, code)
	}

	return courses
}
