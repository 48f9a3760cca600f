package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateUsernameFromChineseName 用姓名的拼音前缀加随机数字生成用户名
func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomEmail(username string) string {
	return fmt.Sprintf("%s@example.com", username)
}

const passwordCharacters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRandomPassword(length int) string {
	password := make([]byte, length)
	for i := range password {
		password[i] = passwordCharacters[rand.Intn(len(passwordCharacters))]
	}
	return string(password)
}

// GenerateRandomPlateNumber 生成随机车牌号，用于填充测试车辆
func GenerateRandomPlateNumber() string {
	letters := "ABCDEFGHJKLMNPQRSTUVWXYZ"
	plate := "粤"
	plate += string(letters[rand.Intn(len(letters))])
	plate += "·"
	for i := 0; i < 5; i++ {
		if rand.Intn(2) == 0 {
			plate += string(letters[rand.Intn(len(letters))])
		} else {
			plate += string(digits[rand.Intn(len(digits))])
		}
	}
	return plate
}
