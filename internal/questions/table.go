package questions

import "github.com/spigell/interview-coach/internal/ai"

// defaultQuestions is the last resort of the generator.
var defaultQuestions = []ai.Question{
	{ID: "default-1", Question: "Bu alandaki deneyimlerinizi ve uzmanlığınızı anlatır mısınız?"},
	{ID: "default-2", Question: "Kariyerinizde karşılaştığınız en büyük zorluk neydi ve bunu nasıl aştınız?"},
}

// table maps profession id -> position id -> fixed questions.
var table = map[string]map[string][]ai.Question{
	"tech": {
		"software-engineer": {
			{ID: "1", Question: "Karmaşık bir yazılım projesinde karşılaştığınız bir zorluğu ve nasıl aştığınızı anlatın."},
			{ID: "2", Question: "Bir yazılım projesinde teknik borcu nasıl yönetirsiniz? Somut bir örnekle açıklar mısınız?"},
		},
		"frontend-developer": {
			{ID: "1", Question: "Responsive bir web uygulaması geliştirirken dikkat ettiğiniz temel prensipleri açıklayın."},
			{ID: "2", Question: "Frontend performans optimizasyonu için kullandığınız yöntemler nelerdir?"},
		},
		"backend-developer": {
			{ID: "1", Question: "Yüksek trafikli bir API servisi ölçeklendirmek için kullandığınız stratejileri anlatın."},
			{ID: "2", Question: "Veritabanı tasarımında dikkat ettiğiniz güvenlik önlemleri nelerdir?"},
		},
		"mobile-developer": {
			{ID: "1", Question: "Mobil uygulama performansını artırmak için kullandığınız teknikler nelerdir?"},
			{ID: "2", Question: "Cross-platform ve native geliştirme arasındaki tercihiniz nedir ve neden?"},
		},
		"devops-engineer": {
			{ID: "1", Question: "CI/CD pipeline tasarlarken dikkat ettiğiniz hususlar nelerdir?"},
			{ID: "2", Question: "Bir üretim ortamında yaşanan kesinti durumunu nasıl ele alırsınız?"},
		},
		"data-scientist": {
			{ID: "1", Question: "Çalıştığınız en zorlu veri bilimi projesi neydi ve nasıl çözdünüz?"},
			{ID: "2", Question: "Model performansını değerlendirmek için hangi metrikleri kullanırsınız?"},
		},
		"product-manager": {
			{ID: "1", Question: "Ürün vizyonunu teknik ekibe nasıl etkili bir şekilde aktarırsınız?"},
			{ID: "2", Question: "Kullanıcı geri bildirimlerini ürün geliştirme sürecine nasıl dahil edersiniz?"},
		},
		"qa-engineer": {
			{ID: "1", Question: "Test otomasyonu stratejinizi nasıl belirlersiniz?"},
			{ID: "2", Question: "Karşılaştığınız en zorlu hata neydi ve nasıl tespit ettiniz?"},
		},
	},
	"finance": {
		"financial-analyst": {
			{ID: "1", Question: "Yatırım kararları alırken kullandığınız analiz yöntemleri nelerdir?"},
			{ID: "2", Question: "Finansal model oluştururken dikkat ettiğiniz temel unsurlar nelerdir?"},
		},
	},
}

// Lookup returns a copy of the fixed questions for a cataloged pair.
func Lookup(professionID, positionID string) ([]ai.Question, bool) {
	positions, ok := table[professionID]
	if !ok {
		return nil, false
	}
	list, ok := positions[positionID]
	if !ok {
		return nil, false
	}
	return clone(list), true
}

// Defaults returns a copy of the generic question pair.
func Defaults() []ai.Question {
	return clone(defaultQuestions)
}

func clone(list []ai.Question) []ai.Question {
	out := make([]ai.Question, len(list))
	copy(out, list)
	return out
}
