package maintenance

type Gender string

const (
	GenderMale   Gender = "М"
	GenderFemale Gender = "Ж"
)

type Status string

const (
	StatusNotDone    Status = "Не выполнено"
	StatusInProgress Status = "В процессе"
	StatusDone       Status = "Выполнено"
	StatusCancelled  Status = "Отменено"
)

// Foreman - начальник цеха. Пустой Workshop означает, что цех не назначен.
type Foreman struct {
	ID          int64  `json:"foreman_id" gorm:"column:foreman_id;primaryKey;autoIncrement"`
	FullName    string `json:"full_name" gorm:"type:varchar(100);not null"`
	Gender      Gender `json:"gender" gorm:"type:char(1);not null;check:gender IN ('М', 'Ж')"`
	Workshop    string `json:"workshop" gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_foremen_workshop,where:workshop <> ''"`
	PhoneNumber string `json:"phone_number" gorm:"type:varchar(11);not null;uniqueIndex:idx_foremen_phone_number"`
}

func (Foreman) TableName() string {
	return "foremen"
}

// Technician - технический работник
type Technician struct {
	ID             int64  `json:"technician_id" gorm:"column:technician_id;primaryKey;autoIncrement"`
	Specialization string `json:"specialization" gorm:"type:varchar(50);not null"`
	FullName       string `json:"full_name" gorm:"type:varchar(100);not null"`
	Gender         Gender `json:"gender" gorm:"type:char(1);not null;check:gender IN ('М', 'Ж')"`
	PhoneNumber    string `json:"phone_number" gorm:"type:varchar(11);not null;uniqueIndex:idx_technicians_phone_number"`
}

func (Technician) TableName() string {
	return "technicians"
}

// Task - задача, выданная начальником цеха техническому работнику.
// Workshop копируется из цеха начальника в момент создания.
type Task struct {
	ID              int64  `json:"task_id" gorm:"column:task_id;primaryKey;autoIncrement"`
	StartTime       string `json:"start_time" gorm:"type:varchar(16);not null"`
	EndTime         string `json:"end_time" gorm:"type:varchar(16);not null"`
	Workshop        string `json:"workshop" gorm:"type:varchar(50);not null"`
	ForemanID       int64  `json:"foreman_id" gorm:"not null;index"`
	TechnicianID    int64  `json:"technician_id" gorm:"not null;index"`
	TaskDescription string `json:"task_description" gorm:"type:varchar(500);not null"`
	Status          Status `json:"status" gorm:"type:varchar(20);not null;default:'Не выполнено';check:status IN ('Не выполнено', 'В процессе', 'Выполнено', 'Отменено')"`
	Important       bool   `json:"important" gorm:"not null;default:false"`

	Foreman    *Foreman    `json:"-" gorm:"foreignKey:ForemanID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Technician *Technician `json:"-" gorm:"foreignKey:TechnicianID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Task) TableName() string {
	return "technician_tasks"
}
