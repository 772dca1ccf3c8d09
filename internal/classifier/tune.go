package classifier

import "strings"

// knownTunes lists common 词牌 so a bare tune title without a subtitle is recognised
var knownTunes = map[string]struct{}{}

func init() {
	for _, name := range strings.Fields(`
		水调歌头 念奴娇 浣溪沙 如梦令 声声慢 蝶恋花 青玉案 满江红 江城子 西江月
		菩萨蛮 虞美人 鹊桥仙 卜算子 临江仙 雨霖铃 破阵子 渔家傲 沁园春 忆秦娥
		长相思 相见欢 一剪梅 醉花阴 定风波 永遇乐 摸鱼儿 扬州慢 苏幕遮 点绛唇
		清平乐 浪淘沙 生查子 踏莎行 鹧鸪天 钗头凤 八声甘州 望海潮 水龙吟 贺新郎
		桂枝香 六州歌头 南乡子 采桑子 丑奴儿 忆江南 武陵春 小重山 唐多令 天仙子
		玉楼春 木兰花 少年游 诉衷情 阮郎归 谒金门 好事近 渔歌子 霜天晓角`) {
		knownTunes[name] = struct{}{}
	}
}

// TuneOf returns the tune a lyric title names, or "" when it names none.
// "水调歌头·明月几时有" yields 水调歌头; a bare known tune title yields itself.
func TuneOf(title string) string {
	title = strings.TrimSpace(title)
	for _, sep := range []string{"·", "・", "•"} {
		if tune, _, found := strings.Cut(title, sep); found {
			return strings.TrimSpace(tune)
		}
	}
	if IsKnownTune(title) {
		return title
	}
	return ""
}

// IsKnownTune reports whether name is a listed 词牌
func IsKnownTune(name string) bool {
	_, ok := knownTunes[name]
	return ok
}
